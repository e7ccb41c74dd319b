package app

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime wiring options for building the app. Values come from
// GROUPCTL_* environment variables (optionally via a .env file); flags
// override them afterwards.
type Config struct {
	RelayURL         string        `envconfig:"RELAY_URL"`
	Home             string        `envconfig:"HOME_DIR"`
	OperationTimeout time.Duration `envconfig:"OP_TIMEOUT" default:"10s"`
	DialTimeout      time.Duration `envconfig:"DIAL_TIMEOUT" default:"10s"`
	AuthTimeout      time.Duration `envconfig:"AUTH_TIMEOUT" default:"5s"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"warn"`
}

// LoadConfig reads a .env file when present, then the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("groupctl", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
