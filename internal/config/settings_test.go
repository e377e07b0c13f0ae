package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendBaseURL() != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected backend base url: %q", cfg.BackendBaseURL())
	}
	if cfg.ActivePollInterval() != 5*time.Second {
		t.Fatalf("unexpected active poll interval: %v", cfg.ActivePollInterval())
	}
	if cfg.IdlePollInterval() != 30*time.Second {
		t.Fatalf("unexpected idle poll interval: %v", cfg.IdlePollInterval())
	}
	if cfg.RecoveryMaxAttempts() != 0 {
		t.Fatalf("expected unbounded recovery by default")
	}
}

func TestLoadFromTOML(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", home)

	dataDir := filepath.Join(home, ".jasper")
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := []byte("[backend]\naddress = \"http://127.0.0.1:9000/\"\n\n[index]\nactive_poll_seconds = 2\n")
	if err := os.WriteFile(filepath.Join(dataDir, "config.toml"), content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendAddress() != "127.0.0.1:9000" {
		t.Fatalf("unexpected backend address: %q", cfg.BackendAddress())
	}
	if cfg.ActivePollInterval() != 2*time.Second {
		t.Fatalf("unexpected active poll interval: %v", cfg.ActivePollInterval())
	}
	if cfg.IdlePollInterval() != 30*time.Second {
		t.Fatalf("expected default idle poll interval, got %v", cfg.IdlePollInterval())
	}
}

func TestNegativeIntervalsFallBack(t *testing.T) {
	cfg := Default()
	cfg.Index.ActivePollSeconds = -1
	cfg.Recovery.MaxAttempts = -5
	if cfg.ActivePollInterval() != 5*time.Second {
		t.Fatalf("expected fallback interval, got %v", cfg.ActivePollInterval())
	}
	if cfg.RecoveryMaxAttempts() != 0 {
		t.Fatalf("expected negative max attempts to read as unbounded")
	}
}
