package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Backend settings
	BackendURL     string
	RequestTimeout time.Duration

	// Reply pacing
	ReplyDelay  time.Duration
	ReplyJitter time.Duration

	// Presentation
	Compact     bool
	StartClosed bool
	Style       string // glamour style: dark, light, notty, auto

	// Attachments
	MaxUploadSize int64

	// Files
	LogPath       string
	TranscriptDir string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		BackendURL:     "http://localhost:8000",
		RequestTimeout: 120 * time.Second,

		ReplyDelay:  1 * time.Second,
		ReplyJitter: 2 * time.Second,

		Compact:     false,
		StartClosed: false,
		Style:       "dark",

		MaxUploadSize: 10 * 1024 * 1024, // 10 MB

		LogPath:       expandHome("~/.aria-chat/aria.log"),
		TranscriptDir: expandHome("~/.aria-chat/transcripts"),
	}
}

// Load builds a configuration from defaults, an optional .env file and the
// ARIA_* environment variables.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env file is fine; a malformed one is not.
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := NewConfig()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := GetEnv("ARIA_BACKEND_URL"); v != "" {
		c.BackendURL = v
	}
	if v := GetEnv("ARIA_STYLE"); v != "" {
		c.Style = v
	}
	if v := GetEnv("ARIA_LOG_FILE"); v != "" {
		c.LogPath = expandHome(v)
	}
	if v := GetEnv("ARIA_TRANSCRIPT_DIR"); v != "" {
		c.TranscriptDir = expandHome(v)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"ARIA_REQUEST_TIMEOUT", &c.RequestTimeout},
		{"ARIA_REPLY_DELAY", &c.ReplyDelay},
		{"ARIA_REPLY_JITTER", &c.ReplyJitter},
	}
	for _, d := range durations {
		v := GetEnv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.key, v, err)
		}
		*d.dst = parsed
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"ARIA_COMPACT", &c.Compact},
		{"ARIA_START_CLOSED", &c.StartClosed},
	}
	for _, b := range bools {
		v := GetEnv(b.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", b.key, v, err)
		}
		*b.dst = parsed
	}

	if v := GetEnv("ARIA_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ARIA_MAX_UPLOAD_BYTES %q: %w", v, err)
		}
		c.MaxUploadSize = n
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend URL cannot be empty")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend URL must be an absolute http(s) URL, got %q", c.BackendURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}
	if c.ReplyDelay < 0 || c.ReplyJitter < 0 {
		return fmt.Errorf("reply delay and jitter cannot be negative")
	}
	if c.MaxUploadSize < 1 {
		return fmt.Errorf("max upload size must be at least 1 byte")
	}
	if c.StartClosed && !c.Compact {
		return fmt.Errorf("the widget can only start closed in compact mode")
	}
	switch c.Style {
	case "dark", "light", "notty", "auto":
	default:
		return fmt.Errorf("unknown style %q", c.Style)
	}
	return nil
}

// expandHome expands the ~ in file paths to the user's home directory
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir := getHomeDir()
		return homeDir + path[1:]
	}
	return path
}

// getHomeDir returns the user's home directory
func getHomeDir() string {
	if home := GetEnv("HOME"); home != "" {
		return home
	}
	// Fallback for Windows
	if home := GetEnv("USERPROFILE"); home != "" {
		return home
	}
	return "."
}

// GetEnv is a wrapper around os.Getenv for easier testing
var GetEnv = func(key string) string {
	// Will be replaced with os.Getenv in main
	return ""
}
