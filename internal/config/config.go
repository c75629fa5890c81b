// Package config defines the site configuration and its defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogJSON switches the log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// GinMode is debug, release or test.
	GinMode string `koanf:"gin_mode"`

	// DBPath is the SQLite file used for visitor tracking.
	DBPath string `koanf:"db_path"`
	// VisitorRetention is how long visitor rows are kept.
	VisitorRetention time.Duration `koanf:"visitor_retention"`

	// ContentPath optionally replaces the embedded portfolio content.
	ContentPath string `koanf:"content_path"`

	// AdminUsername and AdminPassword guard /admin. An empty password
	// disables admin login.
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	// SessionTTL closes page sessions that received nothing for this long.
	SessionTTL time.Duration `koanf:"session_ttl"`
	// SessionGrace is how long a session outlives its last event stream,
	// so that a reconnecting browser finds it again.
	SessionGrace time.Duration `koanf:"session_grace"`
	// MaxSessions caps the live sessions. Opening one more closes the
	// oldest session without a stream.
	MaxSessions int `koanf:"max_sessions"`

	// ContactDelay is the simulated send time of the contact form.
	ContactDelay time.Duration `koanf:"contact_delay"`

	// Loading splash cadence.
	LoadingStepInterval    time.Duration `koanf:"loading_step_interval"`
	LoadingStep            int           `koanf:"loading_step"`
	LoadingCompleteDelay   time.Duration `koanf:"loading_complete_delay"`
	LoadingMessageInterval time.Duration `koanf:"loading_message_interval"`

	// Hero typewriter cadence.
	TypeInterval   time.Duration `koanf:"type_interval"`
	DeleteInterval time.Duration `koanf:"delete_interval"`
	TypePause      time.Duration `koanf:"type_pause"`

	// Counter animation.
	FrameInterval   time.Duration `koanf:"frame_interval"`
	CounterDuration time.Duration `koanf:"counter_duration"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":8080",
		GinMode:                "release",
		DBPath:                 "portfolio.db",
		VisitorRetention:       365 * 24 * time.Hour,
		AdminUsername:          "admin",
		SessionTTL:             10 * time.Minute,
		SessionGrace:           30 * time.Second,
		MaxSessions:            1000,
		ContactDelay:           2 * time.Second,
		LoadingStepInterval:    80 * time.Millisecond,
		LoadingStep:            2,
		LoadingCompleteDelay:   500 * time.Millisecond,
		LoadingMessageInterval: time.Second,
		TypeInterval:           100 * time.Millisecond,
		DeleteInterval:         50 * time.Millisecond,
		TypePause:              2 * time.Second,
		FrameInterval:          time.Second / 60,
		CounterDuration:        2 * time.Second,
	}
}

// Validate checks the values that would break the server.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.GinMode != "debug" && c.GinMode != "release" && c.GinMode != "test":
		return fmt.Errorf("%w: gin_mode %q", ErrInvalidConfig, c.GinMode)
	case c.LoadingStep < 1 || c.LoadingStep > 100:
		return fmt.Errorf("%w: loading_step must be within 1..100", ErrInvalidConfig)
	case c.SessionTTL <= 0:
		return fmt.Errorf("%w: session_ttl must be positive", ErrInvalidConfig)
	case c.SessionGrace <= 0:
		return fmt.Errorf("%w: session_grace must be positive", ErrInvalidConfig)
	case c.MaxSessions < 1:
		return fmt.Errorf("%w: max_sessions must be at least 1", ErrInvalidConfig)
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.VisitorRetention <= 0:
		return fmt.Errorf("%w: visitor_retention must be positive", ErrInvalidConfig)
	}
	for name, d := range map[string]time.Duration{
		"loading_step_interval":    c.LoadingStepInterval,
		"loading_message_interval": c.LoadingMessageInterval,
		"type_interval":            c.TypeInterval,
		"delete_interval":          c.DeleteInterval,
		"frame_interval":           c.FrameInterval,
		"counter_duration":         c.CounterDuration,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, name)
		}
	}
	if c.ContactDelay < 0 || c.LoadingCompleteDelay < 0 || c.TypePause < 0 {
		return fmt.Errorf("%w: delays must not be negative", ErrInvalidConfig)
	}
	return nil
}
