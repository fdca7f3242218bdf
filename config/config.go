package config

import (
	"github.com/caarlos0/env/v11"
)

// Config is the full server configuration, parsed from the environment.
// godotenv loads a .env file first in main, so local overrides work the same
// way as deployed ones.
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	Prod           bool     `env:"PROD" envDefault:"false"`
	SessionKey     string   `env:"SESSION_KEY" envDefault:"idoldraft-dev-key"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	UseHTTPS       bool     `env:"USE_HTTPS" envDefault:"false"`
	CertFile       string   `env:"CERT_FILE"`
	KeyFile        string   `env:"KEY_FILE"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
