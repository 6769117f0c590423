package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Store  StoreConfig  `mapstructure:"store"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1,lte=300"`
}

// ShutdownTimeout returns the graceful shutdown budget as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// StoreConfig controls the in-memory task store.
type StoreConfig struct {
	// Seed loads fixture tasks at startup.
	Seed bool `mapstructure:"seed"`
	// SeedFile overrides the built-in fixture. Ignored unless Seed is set.
	SeedFile string `mapstructure:"seed_file" validate:"omitempty,filepath"`
}

// CacheConfig controls the read-through task cache.
type CacheConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	TTLSeconds             int  `mapstructure:"ttl_seconds" validate:"gte=1"`
	CleanupIntervalSeconds int  `mapstructure:"cleanup_interval_seconds" validate:"gte=1"`
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// CleanupInterval returns the expired-entry sweep interval as a duration.
func (c CacheConfig) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSeconds) * time.Second
}
