package main

import (
	"io"
	"os"
)

type commandRunner interface {
	Run(args []string) error
}

type commandWiring struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	version   string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newBackendClient,
		version:   buildVersion(),
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"ask":     NewAskCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"status":  NewStatusCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"open":    NewOpenCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"restart": NewRestartCommand(wiring.stdout, wiring.stderr, wiring.newClient, nil),
		"console": NewConsoleCommand(wiring.stderr),
		"ui":      NewUICommand(wiring.stderr, configureUILogging),
		"config":  NewConfigCommand(wiring.stdout, wiring.stderr),
	}
}
