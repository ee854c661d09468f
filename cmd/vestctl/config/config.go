package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the defaults of the command line flags
type Config struct {
	APIURL      string        `env:"VESTCTL_API_URL" envDefault:"http://localhost:8080"`
	Sender      string        `env:"VESTCTL_SENDER"`
	HTTPTimeout time.Duration `env:"VESTCTL_HTTP_TIMEOUT" envDefault:"30s"`

	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogHumanFriendly bool   `env:"LOG_HUMAN_FRIENDLY" envDefault:"true"`
}

// New loads all configuration from environment variables
func New() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}
	return cfg
}
