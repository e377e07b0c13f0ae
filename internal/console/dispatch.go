package console

import (
	"context"

	"jasper/internal/logging"
	"jasper/internal/types"
)

// OpenAPI is the slice of the backend client action dispatch needs.
type OpenAPI interface {
	Open(ctx context.Context, id string, provider types.Provider) error
}

// ActionDispatcher turns a clicked result-item action into a fire-and-forget
// open request. Failures go to the log and nowhere else: no retry, nothing
// rendered.
type ActionDispatcher struct {
	api    OpenAPI
	logger logging.Logger
}

func NewActionDispatcher(api OpenAPI, logger logging.Logger) *ActionDispatcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ActionDispatcher{api: api, logger: logger}
}

// Open dispatches the side effect. The returned error exists for callers
// that want it in their own diagnostics; discarding it is the norm.
func (d *ActionDispatcher) Open(ctx context.Context, id string, provider types.Provider) error {
	err := d.api.Open(ctx, id, provider)
	if err != nil {
		d.logger.Warn("open_item_failed",
			logging.F("provider", string(provider)),
			logging.F("id", id),
			logging.F("error", err),
		)
	}
	return err
}
