package console

import (
	"context"
	"strings"

	"jasper/internal/client"
	"jasper/internal/logging"
	"jasper/internal/types"
)

// QueryAPI is the slice of the backend client the chat cycle needs.
type QueryAPI interface {
	Query(ctx context.Context, query string) (*client.QueryResponse, error)
}

// ChatController owns one submission cycle: render the user turn, show the
// typing indicator, query the backend, render the reply. Submissions are
// not serialized; two fast submissions run two overlapping cycles and their
// replies land in arrival order.
type ChatController struct {
	api      QueryAPI
	renderer *Renderer
	logger   logging.Logger
}

func NewChatController(api QueryAPI, renderer *Renderer, logger logging.Logger) *ChatController {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ChatController{api: api, renderer: renderer, logger: logger}
}

// Submit runs one chat cycle to completion. Blank input is a no-op. The
// typing indicator is removed on every path out of the request, including
// transport and parse failures, which render as an assistant error turn
// instead of propagating.
func (c *ChatController) Submit(ctx context.Context, input string) {
	query := strings.TrimSpace(input)
	if query == "" {
		return
	}

	c.renderer.RenderTurn(types.RoleUser, query, nil)
	c.renderer.ShowTyping()

	resp, err := c.api.Query(ctx, query)
	c.renderer.RemoveTyping()
	if err != nil {
		c.logger.Warn("query_failed", logging.F("error", err))
		c.renderer.RenderTurn(types.RoleAssistant, "Error connecting to backend: "+err.Error(), nil)
		return
	}

	if resp.Type == client.ResponseTypeResults {
		c.renderer.RenderTurn(types.RoleAssistant, resp.Content, resp.Data)
		return
	}
	c.renderer.RenderTurn(types.RoleAssistant, resp.Content, nil)
}
