package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"jasper/internal/client"
)

type AskCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewAskCommand(stdout, stderr io.Writer, newClient clientFactory) *AskCommand {
	return &AskCommand{stdout: stdout, stderr: stderr, newClient: newClient}
}

func (c *AskCommand) Run(args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	asJSON := fs.Bool("json", false, "print the raw response as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return errors.New("usage: jasper ask <query>")
	}

	backend, err := c.newClient()
	if err != nil {
		return err
	}
	resp, err := backend.Query(context.Background(), query)
	if err != nil {
		return err
	}

	if *asJSON {
		encoder := json.NewEncoder(c.stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(resp)
	}

	fmt.Fprintln(c.stdout, resp.Content)
	if resp.Type == client.ResponseTypeResults && len(resp.Data) > 0 {
		fmt.Fprintln(c.stdout)
		printItems(c.stdout, resp.Data)
	}
	return nil
}
