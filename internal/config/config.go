// Package config provides configuration management for the StoryCut Agent.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// Default values
	DefaultPort     = 8790
	DefaultLogLevel = "info"
	DefaultDataDir  = ".storycut"
	DefaultFPS      = 30
	DefaultWPS      = 2.5

	// Environment variable names
	EnvPort     = "STORYCUT_PORT"
	EnvLogLevel = "STORYCUT_LOG_LEVEL"
	EnvDataDir  = "STORYCUT_DATA_DIR"
	EnvStore    = "STORYCUT_STORE"
	EnvFPS      = "STORYCUT_FPS"
	EnvWPS      = "STORYCUT_WPS"
	EnvWatch    = "STORYCUT_WATCH"

	// Store backend names
	StoreSQLite = "sqlite"
	StoreYAML   = "yaml"

	// Database filename
	DBFilename = "storycut.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	ProjectsDir() string
	AudioDir() string
	Store() string
	FPS() int
	WordsPerSecond() float64
	WatchEnabled() bool
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port     int
	logLevel string
	dataDir  string
	store    string
	fps      int
	wps      float64
	watch    bool
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:     DefaultPort,
		logLevel: DefaultLogLevel,
		dataDir:  defaultDataDir(),
		store:    StoreSQLite,
		fps:      DefaultFPS,
		wps:      DefaultWPS,
		watch:    true,
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if st := os.Getenv(EnvStore); st != "" {
		if st != StoreSQLite && st != StoreYAML {
			return nil, fmt.Errorf("invalid %s: must be %q or %q", EnvStore, StoreSQLite, StoreYAML)
		}
		cfg.store = st
	}

	if f := os.Getenv(EnvFPS); f != "" {
		fps, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvFPS, err)
		}
		if fps < 1 || fps > 120 {
			return nil, fmt.Errorf("invalid %s: fps must be between 1 and 120", EnvFPS)
		}
		cfg.fps = fps
	}

	if w := os.Getenv(EnvWPS); w != "" {
		wps, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvWPS, err)
		}
		if wps <= 0 {
			return nil, fmt.Errorf("invalid %s: words per second must be positive", EnvWPS)
		}
		cfg.wps = wps
	}

	if wa := os.Getenv(EnvWatch); wa != "" {
		watch, err := strconv.ParseBool(wa)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvWatch, err)
		}
		cfg.watch = watch
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// ProjectsDir returns the directory holding YAML project documents
func (c *EnvConfig) ProjectsDir() string {
	return filepath.Join(c.dataDir, "projects")
}

// AudioDir returns the directory watched for narration audio files
func (c *EnvConfig) AudioDir() string {
	return filepath.Join(c.dataDir, "audio")
}

// Store returns the persistence backend name ("sqlite" or "yaml")
func (c *EnvConfig) Store() string {
	return c.store
}

// FPS returns the default frame rate for new projects
func (c *EnvConfig) FPS() int {
	return c.fps
}

// WordsPerSecond returns the speaking rate used to estimate durations
func (c *EnvConfig) WordsPerSecond() float64 {
	return c.wps
}

// WatchEnabled reports whether the narration audio watcher should run
func (c *EnvConfig) WatchEnabled() bool {
	return c.watch
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
