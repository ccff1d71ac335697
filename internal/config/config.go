// Package config reads process settings from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Score backends accepted in SCORE_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds every tunable of the game process.
type Config struct {
	LogLevel         string `env:"LOG_LEVEL" envDefault:"warn"`
	ScoreBackend     string `env:"SCORE_BACKEND" envDefault:"file"`
	ScoreFile        string `env:"SCORE_FILE" envDefault:"scoreboard.txt"`
	ScoreDB          string `env:"SCORE_DB" envDefault:"data/scores.db"`
	MaxPlayers       int    `env:"MAX_PLAYERS" envDefault:"8"`
	DifficultySelect bool   `env:"DIFFICULTY_SELECT" envDefault:"false"`
	Dice             int    `env:"DICE" envDefault:"1"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment into a Config and validates it.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.ScoreBackend = strings.ToLower(strings.TrimSpace(cfg.ScoreBackend))
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.ScoreBackend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("SCORE_BACKEND must be file, sqlite or memory, got %q", c.ScoreBackend)
	}
	if c.MaxPlayers < 1 {
		return fmt.Errorf("MAX_PLAYERS must be at least 1, got %d", c.MaxPlayers)
	}
	if c.Dice != 1 && c.Dice != 2 {
		return fmt.Errorf("DICE must be 1 or 2, got %d", c.Dice)
	}
	return nil
}
