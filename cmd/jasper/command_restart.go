package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"jasper/internal/config"
	"jasper/internal/console"
)

type RestartCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	clock     console.Clock
}

func NewRestartCommand(stdout, stderr io.Writer, newClient clientFactory, clock console.Clock) *RestartCommand {
	return &RestartCommand{stdout: stdout, stderr: stderr, newClient: newClient, clock: clock}
}

type printingOverlay struct {
	out io.Writer
}

func (o printingOverlay) Activate() {
	fmt.Fprintln(o.out, "Restarting backend, please wait...")
}

func (o printingOverlay) Deactivate() {
	fmt.Fprintln(o.out, "Backend did not come back.")
}

type printingNavigator struct {
	out io.Writer
}

func (n printingNavigator) Reload() {
	fmt.Fprintln(n.out, "Backend is back.")
}

func (c *RestartCommand) Run(args []string) error {
	fs := flag.NewFlagSet("restart", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	attempts := fs.Int("attempts", -1, "max liveness probes before giving up (0 = forever)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	backend, err := c.newClient()
	if err != nil {
		return err
	}

	poller := console.NewRecoveryPoller(
		backend,
		printingOverlay{out: c.stdout},
		printingNavigator{out: c.stdout},
		c.clock,
		nil,
	)
	if cfg, err := config.Load(); err == nil {
		poller.Grace = cfg.RestartGrace()
		poller.Retry = cfg.ProbeRetry()
		poller.MaxAttempts = cfg.RecoveryMaxAttempts()
	}
	if *attempts >= 0 {
		poller.MaxAttempts = *attempts
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return poller.Run(ctx)
}
