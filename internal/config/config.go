// Package config provides centralized configuration management.
// This is the single source of truth for all tunable server settings.
//
// Combat balance numbers (damage, ranges, radii) deliberately do NOT live
// here: they are server-authoritative constants in internal/game and stay
// out of reach of per-deployment environment edits.
package config

import (
	"os"
	"strconv"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int
	LogFile string
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:    8080,
		LogFile: "arena.log",
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if f := os.Getenv("LOG_FILE"); f != "" {
		cfg.LogFile = f
	}
	return cfg
}

// WorldConfig holds arena geometry and startup population settings.
type WorldConfig struct {
	Width  float64 // Arena width in pixels
	Height float64 // Arena height in pixels
	Margin float64 // Playable-area inset from every edge
	SpawnX float64 // Canonical player spawn point
	SpawnY float64

	DummyCount   int // Stationary AI targets created at startup
	ShardMax     int // Shard pool capacity
	ShardInitial int // Shards populated at startup
}

// DefaultWorld returns the default world configuration.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		Width:        2000,
		Height:       2000,
		Margin:       20,
		SpawnX:       1000,
		SpawnY:       1000,
		DummyCount:   6,
		ShardMax:     40,
		ShardInitial: 20,
	}
}

// WorldFromEnv returns world configuration with environment variable overrides.
func WorldFromEnv() WorldConfig {
	cfg := DefaultWorld()

	if w := getEnvFloat("WORLD_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("WORLD_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if s := getEnvInt("SHARD_INITIAL", -1); s >= 0 && s <= cfg.ShardMax {
		cfg.ShardInitial = s
	}
	return cfg
}

// ResourceLimits controls DoS protection limits on the transport surface.
type ResourceLimits struct {
	MaxPlayers         int     // Hard cap on concurrent player sessions
	MaxConnsPerIP      int     // WebSocket connections per source IP
	HTTPRequestsPerSec float64 // Per-IP HTTP rate limit
	HTTPBurst          int
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxPlayers:         100,
		MaxConnsPerIP:      5,
		HTTPRequestsPerSec: 10,
		HTTPBurst:          20,
	}
}

// LimitsFromEnv returns resource limits with environment variable overrides.
func LimitsFromEnv() ResourceLimits {
	cfg := DefaultLimits()

	if mp := getEnvInt("MAX_PLAYERS", 0); mp > 0 {
		cfg.MaxPlayers = mp
	}
	if mc := getEnvInt("MAX_CONNS_PER_IP", 0); mc > 0 {
		cfg.MaxConnsPerIP = mc
	}
	return cfg
}

// ObservabilityConfig configures the localhost-only debug server.
type ObservabilityConfig struct {
	Enabled    bool
	ListenAddr string
}

// DefaultObservability returns safe defaults: debug endpoints never leave
// the loopback interface.
func DefaultObservability() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// ObservabilityFromEnv returns observability configuration with env overrides.
func ObservabilityFromEnv() ObservabilityConfig {
	cfg := DefaultObservability()

	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		cfg.Enabled = false
	}
	return cfg
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Server        ServerConfig
	World         WorldConfig
	Limits        ResourceLimits
	Observability ObservabilityConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Server:        ServerFromEnv(),
		World:         WorldFromEnv(),
		Limits:        LimitsFromEnv(),
		Observability: ObservabilityFromEnv(),
	}
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
