package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServiceEnvironment     string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	ServicePort            string `envconfig:"SERVICE_PORT" default:"8080"`
	DatabaseURL            string `envconfig:"DATABASE_URL" required:"true"`
	DatabaseMaxConns       int    `envconfig:"DATABASE_MAX_CONNS" default:"5"`
	DatabaseConnTimeoutSec int    `envconfig:"DATABASE_CONN_TIMEOUT_SEC" default:"5"`
	FeedSecret             string `envconfig:"FEED_SECRET" required:"true"`
	FeedResolveMaxUsers    int    `envconfig:"FEED_RESOLVE_MAX_USERS" default:"10000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	// required:"true" accepts a set-but-blank variable; an effectively
	// empty secret must never reach token derivation.
	if strings.TrimSpace(cfg.FeedSecret) == "" {
		return nil, fmt.Errorf("FEED_SECRET must not be empty")
	}

	return &cfg, nil
}
