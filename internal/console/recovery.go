package console

import (
	"context"
	"errors"
	"time"

	"jasper/internal/logging"
)

// ErrRecoveryAbandoned is returned when a bounded recovery loop exhausts
// its attempts. The default configuration never bounds the loop.
var ErrRecoveryAbandoned = errors.New("backend did not recover within the attempt budget")

// RestartAPI is the slice of the backend client the recovery flow needs.
type RestartAPI interface {
	Restart(ctx context.Context) error
	Ping(ctx context.Context) error
}

// RecoveryPoller drives the restart-and-recover flow: blocking overlay on,
// best-effort restart signal, a grace wait for the process to go down, then
// liveness probes until the backend answers, at which point the page
// reloads. Restart duration is backend-controlled and unknown here, so the
// probe loop is unbounded unless MaxAttempts is set.
type RecoveryPoller struct {
	api     RestartAPI
	overlay Overlay
	nav     Navigator
	clock   Clock
	logger  logging.Logger

	// Grace is the wait between the restart signal and the first probe;
	// Retry is the wait between failed probes. MaxAttempts of zero means
	// probe forever.
	Grace       time.Duration
	Retry       time.Duration
	MaxAttempts int
}

func NewRecoveryPoller(api RestartAPI, overlay Overlay, nav Navigator, clock Clock, logger logging.Logger) *RecoveryPoller {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &RecoveryPoller{
		api:     api,
		overlay: overlay,
		nav:     nav,
		clock:   clock,
		logger:  logger,
		Grace:   3 * time.Second,
		Retry:   2 * time.Second,
	}
}

// Run executes one restart-and-recover sequence. It returns nil after
// triggering exactly one reload, ctx.Err() when cancelled, or
// ErrRecoveryAbandoned when a bounded loop runs out of attempts. The
// restart signal's own failure is swallowed: the backend usually dies
// mid-response anyway.
func (p *RecoveryPoller) Run(ctx context.Context) error {
	p.overlay.Activate()
	if err := p.api.Restart(ctx); err != nil {
		p.logger.Debug("restart_signal_failed", logging.F("error", err))
	}
	if err := p.clock.Sleep(ctx, p.Grace); err != nil {
		return err
	}

	attempts := 0
	for {
		err := p.api.Ping(ctx)
		if err == nil {
			p.logger.Info("backend_recovered", logging.F("attempts", attempts+1))
			p.nav.Reload()
			return nil
		}
		p.logger.Debug("recovery_probe_failed", logging.F("error", err))
		attempts++
		if p.MaxAttempts > 0 && attempts >= p.MaxAttempts {
			p.overlay.Deactivate()
			return ErrRecoveryAbandoned
		}
		if err := p.clock.Sleep(ctx, p.Retry); err != nil {
			return err
		}
	}
}
