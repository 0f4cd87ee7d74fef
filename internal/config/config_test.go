package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	for _, env := range []string{EnvPort, EnvLogLevel, EnvDataDir, EnvStore, EnvFPS, EnvWPS, EnvWatch} {
		os.Unsetenv(env)
	}

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port() != DefaultPort {
		t.Errorf("Port() = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel() = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.Store() != StoreSQLite {
		t.Errorf("Store() = %q, want %q", cfg.Store(), StoreSQLite)
	}
	if cfg.FPS() != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", cfg.FPS(), DefaultFPS)
	}
	if cfg.WordsPerSecond() != DefaultWPS {
		t.Errorf("WordsPerSecond() = %v, want %v", cfg.WordsPerSecond(), DefaultWPS)
	}
	if !cfg.WatchEnabled() {
		t.Error("WatchEnabled() = false, want true")
	}
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvStore, StoreYAML)
	t.Setenv(EnvFPS, "24")
	t.Setenv(EnvWPS, "3.0")
	t.Setenv(EnvWatch, "false")
	t.Setenv(EnvDataDir, "/tmp/storycut-test")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port() != 9000 {
		t.Errorf("Port() = %d, want 9000", cfg.Port())
	}
	if cfg.Store() != StoreYAML {
		t.Errorf("Store() = %q, want %q", cfg.Store(), StoreYAML)
	}
	if cfg.FPS() != 24 {
		t.Errorf("FPS() = %d, want 24", cfg.FPS())
	}
	if cfg.WordsPerSecond() != 3.0 {
		t.Errorf("WordsPerSecond() = %v, want 3.0", cfg.WordsPerSecond())
	}
	if cfg.WatchEnabled() {
		t.Error("WatchEnabled() = true, want false")
	}
	if cfg.DBPath() != filepath.Join("/tmp/storycut-test", DBFilename) {
		t.Errorf("DBPath() = %q", cfg.DBPath())
	}
}

func TestNew_InvalidValues(t *testing.T) {
	cases := []struct {
		env   string
		value string
	}{
		{EnvPort, "not-a-port"},
		{EnvPort, "70000"},
		{EnvStore, "postgres"},
		{EnvFPS, "0"},
		{EnvWPS, "-1"},
		{EnvWatch, "maybe"},
	}

	for _, tc := range cases {
		t.Run(tc.env+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.env, tc.value)
			if _, err := New(); err == nil {
				t.Errorf("New() with %s=%s succeeded, want error", tc.env, tc.value)
			}
		})
	}
}
