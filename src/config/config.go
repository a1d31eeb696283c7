package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"3000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://www.bagbantergh.com,https://bagbantergh.com,http://localhost:5173"`
	CookieSecure   bool     `env:"COOKIE_SECURE" envDefault:"true"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	SeedCatalog    bool     `env:"SEED_CATALOG" envDefault:"false"`

	MongoDBConnectionString string `env:"MONGODB_URI"`
	MongoDBDatabaseName     string `env:"MONGODB_DATABASE_NAME" envDefault:"bagbanter"`

	// RabbitMQ is optional; events are dropped when RabbitMQURL is empty.
	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"order_events"`

	// Redis is optional; logout only clears the cookie when RedisAddr is empty.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	AdminEmail    string        `env:"ADMIN_EMAIL"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

func LoadConfig() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables only")
	}

	return Parse()
}

// Parse reads the process environment without touching .env files.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.AdminEmail = strings.TrimSpace(cfg.AdminEmail)
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.AdminPassword
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.AdminEmail == "" {
		return errors.New("ADMIN_EMAIL is required")
	}
	if c.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required")
	}
	if c.MongoDBConnectionString == "" {
		return errors.New("MONGODB_URI is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}
