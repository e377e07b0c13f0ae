package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"jasper/internal/config"
	"jasper/internal/console"
	"jasper/internal/types"
)

type StatusCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewStatusCommand(stdout, stderr io.Writer, newClient clientFactory) *StatusCommand {
	return &StatusCommand{stdout: stdout, stderr: stderr, newClient: newClient}
}

func (c *StatusCommand) Run(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	watch := fs.Bool("watch", false, "keep polling until indexing finishes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	backend, err := c.newClient()
	if err != nil {
		return err
	}

	if !*watch {
		status, err := backend.IndexStatus(context.Background())
		if err != nil {
			return err
		}
		c.printStatus(status)
		return nil
	}
	return c.watchStatus(backend)
}

// watchStatus polls at the console's cadence until the index goes idle or
// the user interrupts.
func (c *StatusCommand) watchStatus(backend backendClient) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	policy := console.DefaultIndexPolicy()
	if cfg, err := config.Load(); err == nil {
		policy.Active = cfg.ActivePollInterval()
		policy.Idle = cfg.IdlePollInterval()
	}
	clock := console.SystemClock()

	for {
		status, err := backend.IndexStatus(ctx)
		if err != nil {
			fmt.Fprintf(c.stderr, "status unavailable: %v\n", err)
		} else {
			c.printStatus(status)
			if !status.Active() {
				return nil
			}
		}
		if err := clock.Sleep(ctx, policy.Next(status, err)); err != nil {
			return nil
		}
	}
}

func (c *StatusCommand) printStatus(status *types.IndexStatus) {
	stamp := time.Now().Format("15:04:05")
	fmt.Fprintf(c.stdout, "%s  %s  %d%%\n", stamp, status.Status, status.Percent)
}
