package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"jasper/internal/types"
)

type OpenCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewOpenCommand(stdout, stderr io.Writer, newClient clientFactory) *OpenCommand {
	return &OpenCommand{stdout: stdout, stderr: stderr, newClient: newClient}
}

func (c *OpenCommand) Run(args []string) error {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	provider := fs.String("provider", string(types.ProviderFiles), "item provider: FILES|OUTLOOK|GMAIL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: jasper open [--provider FILES|OUTLOOK|GMAIL] <path-or-message-id>")
	}
	id := fs.Arg(0)

	resolved, err := resolveProvider(*provider)
	if err != nil {
		return err
	}

	backend, err := c.newClient()
	if err != nil {
		return err
	}
	if err := backend.Open(context.Background(), id, resolved); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "opened")
	return nil
}

func resolveProvider(raw string) (types.Provider, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", string(types.ProviderFiles):
		return types.ProviderFiles, nil
	case string(types.ProviderOutlook):
		return types.ProviderOutlook, nil
	case string(types.ProviderGmail):
		return types.ProviderGmail, nil
	default:
		return "", errors.New("invalid provider: must be FILES, OUTLOOK, or GMAIL")
	}
}
