package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"threadmart"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`

	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"threadmart"`

	JWTSecret  string        `env:"JWT_SECRET,required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	CookieName string        `env:"AUTH_COOKIE_NAME" envDefault:"token"`

	PaymentBaseURL    string `env:"PAYMENT_BASE_URL"`
	PaymentAPIKey     string `env:"PAYMENT_API_KEY"`
	PaymentSuccessURL string `env:"PAYMENT_SUCCESS_URL" envDefault:"http://localhost:3000/payment/success"`
	PaymentCancelURL  string `env:"PAYMENT_CANCEL_URL" envDefault:"http://localhost:3000/payment/cancel"`

	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"5s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE" envDefault:"50"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
