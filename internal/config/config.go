package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the process configuration. Values come from a .env file
// when present, overridden by the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Messaging platform
	BotToken      string `env:"BOT_TOKEN"`
	BotAPIBaseURL string `env:"BOT_API_BASE_URL" envDefault:"https://api.telegram.org"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	// WebhookSecret, when set, must match the secret-token header on
	// inbound webhook requests.
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// Preference store. An empty URI selects the in-memory store.
	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"swara"`

	// Synthesis backend: edge|google.
	TTSService string `env:"TTS_SERVICE" envDefault:"edge"`

	// RequiredChannel gates private-chat use behind membership, e.g.
	// "@swarahub". Empty disables the gate.
	RequiredChannel string `env:"REQUIRED_CHANNEL"`

	// AdminJWTSecret protects /api/v1. Empty disables the admin API.
	AdminJWTSecret string `env:"ADMIN_JWT_SECRET"`

	// FFmpegBinary is probed first during transcoder discovery.
	FFmpegBinary string `env:"FFMPEG_BINARY"`

	// MaxTextLength bounds free text accepted for synthesis, in runes.
	MaxTextLength int `env:"MAX_TEXT_LENGTH" envDefault:"1000"`

	// LivenessInterval is the period of the "still working" signal.
	LivenessInterval time.Duration `env:"LIVENESS_INTERVAL" envDefault:"4s"`
}

// New loads the configuration.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}
	if cfg.MaxTextLength <= 0 {
		return nil, errors.New("MAX_TEXT_LENGTH must be positive")
	}
	if cfg.LivenessInterval <= 0 {
		return nil, errors.New("LIVENESS_INTERVAL must be positive")
	}

	return cfg, nil
}
