// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// APIKey authenticates against the generation backend. Read from
	// GEMINI_API_KEY, falling back to GOOGLE_API_KEY.
	APIKey string

	// Voice names the prebuilt synthesis voice for speech and live modes.
	Voice string

	// VideoPollInterval is the delay between video operation status checks.
	VideoPollInterval time.Duration

	// OutputDir is where generated media files are written.
	OutputDir string

	LogLevel slog.Level
}

// LoadFromEnv reads configuration, loading a .env file first if one exists
// beside the binary.
func LoadFromEnv() (Config, error) {
	// Missing .env is fine; explicit environment always wins.
	godotenv.Load()

	cfg := Config{
		APIKey:            envOr("GEMINI_API_KEY", ""),
		Voice:             envOr("OMNICHAT_VOICE", "Zephyr"),
		VideoPollInterval: envDurationOr("OMNICHAT_VIDEO_POLL_INTERVAL", 5*time.Second),
		OutputDir:         envOr("OMNICHAT_OUTPUT_DIR", "."),
		LogLevel:          parseLevel(envOr("OMNICHAT_LOG_LEVEL", "info")),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = envOr("GOOGLE_API_KEY", "")
	}
	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY must be set")
	}
	if cfg.VideoPollInterval <= 0 {
		return Config{}, fmt.Errorf("OMNICHAT_VIDEO_POLL_INTERVAL must be > 0")
	}
	return cfg, nil
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
