package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"text/tabwriter"

	"jasper/internal/client"
	"jasper/internal/config"
	"jasper/internal/types"
)

const version = "dev"

// backendClient is the backend surface the CLI commands use, kept as an
// interface so tests can substitute a fake.
type backendClient interface {
	Query(ctx context.Context, query string) (*client.QueryResponse, error)
	Open(ctx context.Context, id string, provider types.Provider) error
	Restart(ctx context.Context) error
	Ping(ctx context.Context) error
	IndexStatus(ctx context.Context) (*types.IndexStatus, error)
}

type clientFactory func() (backendClient, error)

func newBackendClient() (backendClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.BackendBaseURL()), nil
}

func printItems(output io.Writer, items []types.ResultItem) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "TYPE\tTITLE\tLOCATION\tDATE")
	for _, item := range items {
		switch types.Classify(item) {
		case types.ItemFile:
			fmt.Fprintf(writer, "file\t%s\t%s\t%s\n", item.Name, item.Path, item.DisplayDate())
		case types.ItemEmail:
			fmt.Fprintf(writer, "email\t%s\t%s\t%s\n", item.Subject, item.Sender, item.DisplayDate())
		}
	}
	_ = writer.Flush()
}

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				sum := hasher.Sum(nil)
				return fmt.Sprintf("bin-%x", sum[:6])
			}
		}
	}

	return version
}
