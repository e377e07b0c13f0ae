package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultBackendAddress = "127.0.0.1:8000"
const defaultConsoleAddress = "127.0.0.1:8800"

const (
	defaultActivePollSeconds  = 5
	defaultIdlePollSeconds    = 30
	defaultHideGraceSeconds   = 10
	defaultRestartGraceSecond = 3
	defaultProbeRetrySeconds  = 2
)

type Config struct {
	Backend  BackendConfig  `toml:"backend" json:"backend"`
	Console  ConsoleConfig  `toml:"console" json:"console"`
	Index    IndexConfig    `toml:"index" json:"index"`
	Recovery RecoveryConfig `toml:"recovery" json:"recovery"`
	Logging  LoggingConfig  `toml:"logging" json:"logging"`
}

type BackendConfig struct {
	Address string `toml:"address" json:"address"`
}

type ConsoleConfig struct {
	Address string `toml:"address" json:"address"`
}

type IndexConfig struct {
	ActivePollSeconds int `toml:"active_poll_seconds" json:"active_poll_seconds"`
	IdlePollSeconds   int `toml:"idle_poll_seconds" json:"idle_poll_seconds"`
	HideGraceSeconds  int `toml:"hide_grace_seconds" json:"hide_grace_seconds"`
}

type RecoveryConfig struct {
	RestartGraceSeconds int `toml:"restart_grace_seconds" json:"restart_grace_seconds"`
	ProbeRetrySeconds   int `toml:"probe_retry_seconds" json:"probe_retry_seconds"`
	// MaxAttempts bounds the recovery probe loop. Zero keeps probing until
	// the backend answers or the loop is cancelled.
	MaxAttempts int `toml:"max_attempts" json:"max_attempts"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

func Default() Config {
	return Config{
		Backend: BackendConfig{Address: defaultBackendAddress},
		Console: ConsoleConfig{Address: defaultConsoleAddress},
		Index: IndexConfig{
			ActivePollSeconds: defaultActivePollSeconds,
			IdlePollSeconds:   defaultIdlePollSeconds,
			HideGraceSeconds:  defaultHideGraceSeconds,
		},
		Recovery: RecoveryConfig{
			RestartGraceSeconds: defaultRestartGraceSecond,
			ProbeRetrySeconds:   defaultProbeRetrySeconds,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return loadFromPath(path)
}

func loadFromPath(path string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func (c Config) BackendAddress() string {
	return normalizeAddress(c.Backend.Address, defaultBackendAddress)
}

func (c Config) BackendBaseURL() string {
	return "http://" + c.BackendAddress()
}

func (c Config) ConsoleAddress() string {
	return normalizeAddress(c.Console.Address, defaultConsoleAddress)
}

func (c Config) ActivePollInterval() time.Duration {
	return secondsOr(c.Index.ActivePollSeconds, defaultActivePollSeconds)
}

func (c Config) IdlePollInterval() time.Duration {
	return secondsOr(c.Index.IdlePollSeconds, defaultIdlePollSeconds)
}

func (c Config) HideGrace() time.Duration {
	return secondsOr(c.Index.HideGraceSeconds, defaultHideGraceSeconds)
}

func (c Config) RestartGrace() time.Duration {
	return secondsOr(c.Recovery.RestartGraceSeconds, defaultRestartGraceSecond)
}

func (c Config) ProbeRetry() time.Duration {
	return secondsOr(c.Recovery.ProbeRetrySeconds, defaultProbeRetrySeconds)
}

func (c Config) RecoveryMaxAttempts() int {
	if c.Recovery.MaxAttempts < 0 {
		return 0
	}
	return c.Recovery.MaxAttempts
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func normalizeAddress(addr, fallback string) string {
	addr = strings.TrimSpace(addr)
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return fallback
	}
	return addr
}

func secondsOr(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
