package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"

	"jasper/internal/client"
	"jasper/internal/config"
	"jasper/internal/console"
	"jasper/internal/logging"
)

type ConsoleCommand struct {
	stderr io.Writer
}

func NewConsoleCommand(stderr io.Writer) *ConsoleCommand {
	return &ConsoleCommand{stderr: stderr}
}

func (c *ConsoleCommand) Run(args []string) error {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	addr := fs.String("addr", "", "listen address (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	listenAddr := cfg.ConsoleAddress()
	if *addr != "" {
		listenAddr = *addr
	}

	logger := logging.New(c.stderr, logging.ParseLevel(cfg.LogLevel()))
	backend := client.New(cfg.BackendBaseURL())

	server := console.NewServer(backend, logger)
	server.Recovery.Grace = cfg.RestartGrace()
	server.Recovery.Retry = cfg.ProbeRetry()
	server.Recovery.MaxAttempts = cfg.RecoveryMaxAttempts()
	server.Index.Policy = console.IndexPolicy{
		Active:    cfg.ActivePollInterval(),
		Idle:      cfg.IdlePollInterval(),
		HideGrace: cfg.HideGrace(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return server.Run(ctx, listenAddr)
}
