package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT"      default:"3001"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Store selects the product store backend: "memory" or "postgres".
	Store       string `envconfig:"STORE"        default:"memory"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	UploadDir         string `envconfig:"UPLOAD_DIR"           default:"uploads"`
	UploadLimitPerMin int    `envconfig:"UPLOAD_LIMIT_PER_MIN" default:"30"`

	PriceJitter      bool          `envconfig:"PRICE_JITTER"      default:"true"`
	GenerateInterval time.Duration `envconfig:"GENERATE_INTERVAL" default:"3s"`

	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"false"`
	MetricsToken   string `envconfig:"METRICS_TOKEN"`
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}

	if c.Store != "memory" && c.Store != "postgres" {
		return Config{}, errors.New("STORE must be \"memory\" or \"postgres\"")
	}
	if c.Store == "postgres" && c.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required when STORE=postgres")
	}

	return c, nil
}
