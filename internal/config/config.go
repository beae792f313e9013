// Package config loads moneymate's TOML configuration and resolves XDG paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const appName = "moneymate"

// Config holds all moneymate configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Autosave   AutosaveConfig   `toml:"autosave"`
	Alerts     AlertsConfig     `toml:"alerts"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataFile string `toml:"data_file,omitempty"`

	// DataFileFlag is the --data-file value. It is never written to disk.
	DataFileFlag string `toml:"-"`
}

// AutosaveConfig controls the debounced snapshot writer.
type AutosaveConfig struct {
	DebounceMS int `toml:"debounce_ms" validate:"gte=0"`
}

// AlertsConfig controls budget alerting and notifications.
type AlertsConfig struct {
	Enabled          bool    `toml:"enabled"`
	NearingThreshold float64 `toml:"nearing_threshold" validate:"gt=0,lte=1"`
	NotifyDebounceMS int     `toml:"notify_debounce_ms" validate:"gte=0"`
	ReminderHour     int     `toml:"reminder_hour" validate:"gte=-1,lte=23"`
}

// DaemonConfig holds notification daemon settings.
type DaemonConfig struct {
	Addr            string `toml:"addr" validate:"required,hostname_port"`
	PollIntervalSec int    `toml:"poll_interval_sec" validate:"gte=1"`
	EventsBuffer    int    `toml:"events_buffer" validate:"gte=1"`
	QueuePath       string `toml:"queue_path,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `toml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `toml:"format" validate:"omitempty,oneof=text json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Autosave: AutosaveConfig{
			DebounceMS: 800,
		},
		Alerts: AlertsConfig{
			Enabled:          true,
			NearingThreshold: 0.9,
			NotifyDebounceMS: 1000,
			ReminderHour:     9,
		},
		Daemon: DaemonConfig{
			Addr:            "127.0.0.1:8788",
			PollIntervalSec: 5,
			EventsBuffer:    200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// GetDataFile returns the snapshot path from the --data-file flag, the env var
// or the config file, in that order, falling back to the XDG data directory.
func GetDataFile(cfg Config) string {
	if cfg.General.DataFileFlag != "" {
		return cfg.General.DataFileFlag
	}
	if p := os.Getenv("MONEYMATE_DATA_FILE"); p != "" {
		return p
	}
	if cfg.General.DataFile != "" {
		return cfg.General.DataFile
	}
	return filepath.Join(DataDir(), "moneymate.json")
}

// GetQueuePath returns the notification queue database path.
func GetQueuePath(cfg Config) string {
	if cfg.Daemon.QueuePath != "" {
		return cfg.Daemon.QueuePath
	}
	return filepath.Join(DataDir(), "notifications.db")
}

// AutosaveDelay returns the autosave quiet period.
func (c Config) AutosaveDelay() time.Duration {
	return time.Duration(c.Autosave.DebounceMS) * time.Millisecond
}

// NotifyDelay returns the notification scheduling quiet period.
func (c Config) NotifyDelay() time.Duration {
	return time.Duration(c.Alerts.NotifyDebounceMS) * time.Millisecond
}

// PollInterval returns the daemon's snapshot poll interval.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Daemon.PollIntervalSec) * time.Second
}
