package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const envPrefix = "REVIEWDOJO_"

// Config controls runtime behavior for the TUI app.
type Config struct {
	ContentDir   string   `env:"CONTENT_DIR"`
	BundlePath   string   `env:"BUNDLE"`
	LogPath      string   `env:"LOG_PATH"`
	LogLevel     string   `env:"LOG_LEVEL"`
	Dev          bool     `env:"DEV"`
	DevHTTP      string   `env:"DEV_HTTP"`
	DemoScenario string   `env:"DEMO"`
	ASCIIOnly    bool     `env:"ASCII"`
	UI           UIConfig `envPrefix:"UI_"`
}

type UIConfig struct {
	StyleVariant string `env:"STYLE"`
	SyntaxStyle  string `env:"SYNTAX_STYLE"`
	Markdown     bool   `env:"MARKDOWN"`
}

func DefaultConfig() Config {
	return Config{
		ContentDir: "content",
		LogLevel:   "info",
		DevHTTP:    "127.0.0.1:17321",
		UI: UIConfig{
			StyleVariant: "midnight",
			SyntaxStyle:  "monokai",
			Markdown:     true,
		},
	}
}

// LoadConfig starts from DefaultConfig, loads envFile when it exists and
// applies REVIEWDOJO_* variables on top. An empty envFile means ".env".
func LoadConfig(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ContentDir == "" && c.BundlePath == "" {
		return errors.New("either a content directory or a bundle path is required")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Dev && c.DevHTTP == "" {
		return errors.New("dev mode needs a listen address")
	}
	switch c.UI.StyleVariant {
	case "", "midnight", "daylight", "phosphor":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "midnight"
	}
	return nil
}
