package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaultsWithoutEnvFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := DefaultConfig()
	if cfg != want {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("REVIEWDOJO_CONTENT_DIR", "/srv/reviews")
	t.Setenv("REVIEWDOJO_DEV", "true")
	t.Setenv("REVIEWDOJO_UI_STYLE", "phosphor")
	t.Setenv("REVIEWDOJO_UI_MARKDOWN", "false")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ContentDir != "/srv/reviews" || !cfg.Dev {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
	if cfg.UI.StyleVariant != "phosphor" || cfg.UI.Markdown {
		t.Fatalf("expected nested ui overrides, got %+v", cfg.UI)
	}
	if cfg.DevHTTP != "127.0.0.1:17321" {
		t.Fatalf("expected default listen address kept, got %q", cfg.DevHTTP)
	}
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("REVIEWDOJO_LOG_LEVEL=debug\nREVIEWDOJO_ASCII=true\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("REVIEWDOJO_LOG_LEVEL")
		_ = os.Unsetenv("REVIEWDOJO_ASCII")
	})

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel != "debug" || !cfg.ASCIIOnly {
		t.Fatalf("expected values from .env, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bundle only", func(c *Config) { c.ContentDir = ""; c.BundlePath = "content.db" }, true},
		{"no source", func(c *Config) { c.ContentDir = "" }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"dev without addr", func(c *Config) { c.Dev = true; c.DevHTTP = "" }, false},
		{"bad style", func(c *Config) { c.UI.StyleVariant = "neon" }, false},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
	}
}

func TestValidateFillsBlanks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = ""
	cfg.UI.StyleVariant = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.UI.StyleVariant != "midnight" {
		t.Fatalf("expected blanks filled, got %+v", cfg)
	}
}
