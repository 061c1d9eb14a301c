// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// AppConfig is the resolved application configuration.
type AppConfig struct {
	LogLevel  string          `yaml:"logLevel"`
	API       APIConfig       `yaml:"api"`
	Grab      GrabConfig      `yaml:"grab"`
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Store     StoreConfig     `yaml:"store"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// APIConfig configures the upstream client.
type APIConfig struct {
	BaseURL      string        `yaml:"baseURL"`
	UserAgent    string        `yaml:"userAgent"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"maxRetries"`
	RetryBackoff time.Duration `yaml:"retryBackoff"`
	// RateLimit is in requests per second; 0 disables limiting.
	RateLimit float64 `yaml:"rateLimit"`
	RateBurst int     `yaml:"rateBurst"`
	MaxPages  int     `yaml:"maxPages"`
}

// GrabConfig holds defaults for the grab window and the enrichment pool.
type GrabConfig struct {
	Workers int `yaml:"workers"`
	Days    int `yaml:"days"`
	Offset  int `yaml:"offset"`
}

// ServerConfig configures the serve subcommand.
type ServerConfig struct {
	Listen    string `yaml:"listen"`
	XMLTVPath string `yaml:"xmltvPath"`
	// RateLimit is in requests per minute per client IP; 0 disables it.
	RateLimit int           `yaml:"rateLimit"`
	CacheTTL  time.Duration `yaml:"cacheTTL"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Type      string `yaml:"type"` // memory|redis|badger|none
	RedisAddr string `yaml:"redisAddr"`
	RedisDB   int    `yaml:"redisDB"`
	// Path is the Badger directory; empty keeps the Badger cache in memory.
	Path string `yaml:"path"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// TelemetryConfig configures trace export.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"` // grpc|http
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheBadger = "badger"
	CacheNone   = "none"
)
