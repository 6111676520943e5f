// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"MENUS_DB_PATH" envDefault:"./data/menus.db"`
	ServerHost string `env:"MENUS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"MENUS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"MENUS_ENV" envDefault:"development"`
	LogLevel   string `env:"MENUS_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"MENUS_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"MENUS_CACHE_PREFIX" envDefault:"menus:"`  // Redis key prefix
	CacheTTL     int    `env:"MENUS_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"MENUS_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Rate limiting
	RateLimitRPS   float64 `env:"MENUS_RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"MENUS_RATE_LIMIT_BURST" envDefault:"20"`

	// Webhook delivery
	WebhookWorkers int `env:"MENUS_WEBHOOK_WORKERS" envDefault:"3"`

	// Seeding configuration
	DoSeed bool `env:"MENUS_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
