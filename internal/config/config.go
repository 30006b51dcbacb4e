// Package config loads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the server settings.
type Config struct {
	Addr            string        `env:"CRAZY8_ADDR" envDefault:":8080"`
	AIDelay         time.Duration `env:"CRAZY8_AI_DELAY" envDefault:"1500ms"`
	LogLevel        string        `env:"CRAZY8_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"CRAZY8_LOG_FORMAT" envDefault:"text"`
	Seed            uint64        `env:"CRAZY8_SEED" envDefault:"0"` // 0 shuffles from the global source
	ShutdownTimeout time.Duration `env:"CRAZY8_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads the optional dotenv files (default ".env") into the
// environment, without overriding variables already set, and parses Config.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads Config from the current environment.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.AIDelay < 0 {
		return fmt.Errorf("CRAZY8_AI_DELAY must not be negative, got %s", c.AIDelay)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("CRAZY8_LOG_LEVEL: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("CRAZY8_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// ConfigureLogger applies the level and format to l.
func (c Config) ConfigureLogger(l *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	l.SetLevel(level)
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
