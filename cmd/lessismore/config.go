package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/yakir1992/todoapp/client"
	"github.com/yakir1992/todoapp/planner"
)

const (
	AppName               = "lessismore"
	DefaultConfigFileName = "config.toml"
	DefaultStateFileName  = "state.json"
	DefaultServerURL      = "http://localhost:8080"
)

type Config struct {
	ServerURL string `toml:"server_url"`
	// DayCount is how many days of the week are shown: 1, 3, 5 or 7.
	DayCount  int    `toml:"day_count"`
	Timeout   string `toml:"timeout"`
	StatePath string `toml:"state_path"`
}

// RequestTimeout parses Timeout, falling back to the client default.
func (c Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return client.DefaultTimeout
	}
	return d
}

func (c Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("server_url must be set")
	}
	if !planner.ValidDayCount(c.DayCount) {
		return fmt.Errorf("day_count must be one of %v, got %d", planner.DayCounts, c.DayCount)
	}
	if _, err := time.ParseDuration(c.Timeout); c.Timeout != "" && err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	return nil
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.StatePath == "" {
		cfg.StatePath = DefaultStatePath()
	}
	if cfg.DayCount == 0 {
		cfg.DayCount = planner.DefaultDayCount
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		ServerURL: DefaultServerURL,
		DayCount:  planner.DefaultDayCount,
		Timeout:   client.DefaultTimeout.String(),
		StatePath: DefaultStatePath(),
	}
}

// DefaultConfigDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultStatePath uses XDG_STATE_HOME if set, otherwise $HOME/.local/state.
func DefaultStatePath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, DefaultStateFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultStateFileName
	}
	return filepath.Join(home, ".local", "state", AppName, DefaultStateFileName)
}
