package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret  string   `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTExpiry  Duration `env:"JWT_EXPIRY" envDefault:"7d"`
	BcryptCost int      `env:"BCRYPT_COST" envDefault:"10" validate:"min=4,max=31"`

	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID" validate:"required_if=Env production,required_if=Env staging"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"  validate:"required_if=Env production,required_if=Env staging"`
	TwilioFrom       string `env:"TWILIO_FROM"        envDefault:"+18587041238"`
	ResendAPIKey     string `env:"RESEND_API_KEY"     validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom       string `env:"RESEND_FROM"        validate:"required_if=Env production,required_if=Env staging"`
	InviteLink       string `env:"INVITE_LINK"        envDefault:"https://trade-tally-client.herokuapp.com/" validate:"url"`

	StatsCron string `env:"STATS_CRON" envDefault:"@every 1m"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.JWTExpiry <= 0 {
		return nil, fmt.Errorf("invalid config: JWT_EXPIRY must be positive")
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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
