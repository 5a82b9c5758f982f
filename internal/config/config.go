// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment leaves a key unset.
const (
	DefaultPort         = "8080"
	DefaultDBPath       = "minigames.db"
	DefaultClientOrigin = "http://localhost:5173"
	DefaultLogLevel     = "info"
	DefaultTetrisTickMS = 800
)

// Config carries everything main needs to wire the service.
type Config struct {
	Port         string
	DBPath       string
	PuzzleAPIURL string // empty selects the puzzle client's default upstream
	ClientOrigin string
	LogLevel     string
	TetrisTick   time.Duration
}

// Load reads .env (when present) and the environment. Malformed numeric
// values fail loading instead of silently falling back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", DefaultPort),
		DBPath:       getEnv("DB_PATH", DefaultDBPath),
		PuzzleAPIURL: os.Getenv("PUZZLE_API_URL"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", DefaultClientOrigin),
		LogLevel:     getEnv("LOG_LEVEL", DefaultLogLevel),
		TetrisTick:   DefaultTetrisTickMS * time.Millisecond,
	}

	if v := os.Getenv("TETRIS_TICK_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: TETRIS_TICK_MS: %w", err)
		}
		if ms < 50 || ms > 10000 {
			return nil, fmt.Errorf("config: TETRIS_TICK_MS %d out of range [50,10000]", ms)
		}
		cfg.TetrisTick = time.Duration(ms) * time.Millisecond
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
