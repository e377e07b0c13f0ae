package console

import (
	"context"
	"time"

	"jasper/internal/logging"
	"jasper/internal/types"
)

// StatusAPI is the slice of the backend client the status poller needs.
type StatusAPI interface {
	IndexStatus(ctx context.Context) (*types.IndexStatus, error)
}

// IndexPolicy holds the polling cadence: the fast interval while indexing
// runs, the slow interval once idle (also used after probe failures), and
// the grace period before the indicator is hidden. Both console surfaces
// share the same policy.
type IndexPolicy struct {
	Active    time.Duration
	Idle      time.Duration
	HideGrace time.Duration
}

func DefaultIndexPolicy() IndexPolicy {
	return IndexPolicy{
		Active:    5 * time.Second,
		Idle:      30 * time.Second,
		HideGrace: 10 * time.Second,
	}
}

// Next returns the delay before the next status check. A fetch failure
// counts as "no update" and backs off to the idle rate.
func (p IndexPolicy) Next(status *types.IndexStatus, err error) time.Duration {
	if err != nil || status == nil || !status.Active() {
		return p.Idle
	}
	return p.Active
}

// IndexStatusPoller keeps the progress indicator in sync with background
// indexing. The loop never terminates on its own; it is page-lifetime state
// cancelled only through its context.
type IndexStatusPoller struct {
	api    StatusAPI
	view   ProgressView
	clock  Clock
	logger logging.Logger

	// active remembers the previous poll so the idle wind-down (pin at
	// 100%, then hide) runs once per indexing run instead of flashing the
	// indicator on every slow poll.
	active bool

	Policy IndexPolicy
}

func NewIndexStatusPoller(api StatusAPI, view ProgressView, clock Clock, logger logging.Logger) *IndexStatusPoller {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &IndexStatusPoller{
		api:    api,
		view:   view,
		clock:  clock,
		logger: logger,
		Policy: DefaultIndexPolicy(),
	}
}

// Run polls until ctx is cancelled.
func (p *IndexStatusPoller) Run(ctx context.Context) error {
	for {
		interval := p.Poll(ctx)
		if err := p.clock.Sleep(ctx, interval); err != nil {
			return err
		}
	}
}

// Poll performs one status check and returns the delay before the next
// one. On the transition to idle it pins the bar at 100% and starts an
// independent hide timer; the hide timer and the next poll do not cancel
// each other.
func (p *IndexStatusPoller) Poll(ctx context.Context) time.Duration {
	status, err := p.api.IndexStatus(ctx)
	if err != nil {
		// Indicator state stays untouched; try again at the idle rate.
		p.logger.Debug("index_status_poll_failed", logging.F("error", err))
		return p.Policy.Next(nil, err)
	}
	if status.Active() {
		p.active = true
		p.view.ShowProgress(status.Percent)
		return p.Policy.Next(status, nil)
	}
	if p.active {
		p.active = false
		p.view.ShowProgress(100)
		go p.hideAfterGrace(ctx)
	}
	return p.Policy.Next(status, nil)
}

func (p *IndexStatusPoller) hideAfterGrace(ctx context.Context) {
	if err := p.clock.Sleep(ctx, p.Policy.HideGrace); err != nil {
		return
	}
	p.view.HideProgress()
}
