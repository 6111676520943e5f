// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DBPath != "./data/menus.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d", cfg.ServerPort)
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.UseRedisCache() {
		t.Error("Redis should be off by default")
	}
	if cfg.DoSeed {
		t.Error("seeding should be off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MENUS_SERVER_HOST", "0.0.0.0")
	t.Setenv("MENUS_SERVER_PORT", "9090")
	t.Setenv("MENUS_ENV", "production")
	t.Setenv("MENUS_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("MENUS_RATE_LIMIT_RPS", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:9090" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("production env reported as development")
	}
	if !cfg.UseRedisCache() {
		t.Error("Redis URL set but UseRedisCache is false")
	}
	if cfg.RateLimitRPS != 25 {
		t.Errorf("RateLimitRPS = %v", cfg.RateLimitRPS)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("MENUS_SERVER_PORT", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for invalid port")
	}
}
