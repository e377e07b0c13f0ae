package main

import (
	"flag"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"jasper/internal/app"
	"jasper/internal/client"
	"jasper/internal/config"
)

type UICommand struct {
	stderr             io.Writer
	configureUILogging func()
}

func NewUICommand(stderr io.Writer, configureUILogging func()) *UICommand {
	return &UICommand{stderr: stderr, configureUILogging: configureUILogging}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if c.configureUILogging != nil {
		c.configureUILogging()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	api := app.NewClientAPI(client.New(cfg.BackendBaseURL()))
	model := app.NewModel(api, &cfg)

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// configureUILogging sends the standard logger to a file so stray log
// output cannot corrupt the alternate screen.
func configureUILogging() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	dataDir, err := config.DataDir()
	if err != nil {
		return
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return
	}
	logPath, err := config.LogPath()
	if err != nil {
		return
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return
	}
	log.SetOutput(file)
}
