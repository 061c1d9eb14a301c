// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/tlgrab/internal/validate"
)

// Environment variable names.
const (
	EnvLogLevel          = "TLGRAB_LOG_LEVEL"
	EnvAPIBaseURL        = "TLGRAB_API_BASE_URL"
	EnvAPIUserAgent      = "TLGRAB_API_USER_AGENT"
	EnvAPITimeout        = "TLGRAB_API_TIMEOUT"
	EnvAPIMaxRetries     = "TLGRAB_API_MAX_RETRIES"
	EnvAPIRetryBackoff   = "TLGRAB_API_RETRY_BACKOFF"
	EnvAPIRateLimit      = "TLGRAB_API_RATE_LIMIT"
	EnvAPIRateBurst      = "TLGRAB_API_RATE_BURST"
	EnvAPIMaxPages       = "TLGRAB_API_MAX_PAGES"
	EnvGrabWorkers       = "TLGRAB_WORKERS"
	EnvGrabDays          = "TLGRAB_DAYS"
	EnvGrabOffset        = "TLGRAB_OFFSET"
	EnvListen            = "TLGRAB_LISTEN"
	EnvXMLTVPath         = "TLGRAB_XMLTV_PATH"
	EnvServerRateLimit   = "TLGRAB_SERVER_RATE_LIMIT"
	EnvCacheTTL          = "TLGRAB_CACHE_TTL"
	EnvCacheType         = "TLGRAB_CACHE_TYPE"
	EnvRedisAddr         = "TLGRAB_REDIS_ADDR"
	EnvRedisDB           = "TLGRAB_REDIS_DB"
	EnvCachePath         = "TLGRAB_CACHE_PATH"
	EnvStorePath         = "TLGRAB_STORE_PATH"
	EnvTelemetryEnabled  = "TLGRAB_TELEMETRY_ENABLED"
	EnvTelemetryExporter = "TLGRAB_TELEMETRY_EXPORTER"
	EnvTelemetryEndpoint = "TLGRAB_TELEMETRY_ENDPOINT"
	EnvTelemetrySampling = "TLGRAB_TELEMETRY_SAMPLING_RATE"
)

// Loader resolves configuration with precedence ENV > file > defaults.
type Loader struct {
	configPath string
	// ConsumedEnvKeys records every variable the loader looked at.
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader returns a loader for the optional YAML file at configPath.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath:      configPath,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel: "info",
		API: APIConfig{
			BaseURL:      "https://api-tel.programme-tv.net",
			Timeout:      30 * time.Second,
			MaxRetries:   2,
			RetryBackoff: 250 * time.Millisecond,
			RateBurst:    1,
			MaxPages:     1000,
		},
		Grab: GrabConfig{
			Workers: min(32, runtime.NumCPU()+4),
			Days:    1,
		},
		Server: ServerConfig{
			Listen:    ":8080",
			XMLTVPath: "tv_grab_fr_teleloisirs.xml",
			RateLimit: 120,
			CacheTTL:  5 * time.Minute,
		},
		Cache: CacheConfig{Type: CacheMemory},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}

// Load applies defaults, the file and the environment, then validates.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFile decodes path on top of cfg. Unknown keys are rejected.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	return nil
}

func (l *Loader) consume(key string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return key
}

func (l *Loader) mergeEnv(cfg *AppConfig) {
	cfg.LogLevel = ParseString(l.consume(EnvLogLevel), cfg.LogLevel)

	cfg.API.BaseURL = ParseString(l.consume(EnvAPIBaseURL), cfg.API.BaseURL)
	cfg.API.UserAgent = ParseString(l.consume(EnvAPIUserAgent), cfg.API.UserAgent)
	cfg.API.Timeout = ParseDuration(l.consume(EnvAPITimeout), cfg.API.Timeout)
	cfg.API.MaxRetries = ParseInt(l.consume(EnvAPIMaxRetries), cfg.API.MaxRetries)
	cfg.API.RetryBackoff = ParseDuration(l.consume(EnvAPIRetryBackoff), cfg.API.RetryBackoff)
	cfg.API.RateLimit = ParseFloat(l.consume(EnvAPIRateLimit), cfg.API.RateLimit)
	cfg.API.RateBurst = ParseInt(l.consume(EnvAPIRateBurst), cfg.API.RateBurst)
	cfg.API.MaxPages = ParseInt(l.consume(EnvAPIMaxPages), cfg.API.MaxPages)

	cfg.Grab.Workers = ParseInt(l.consume(EnvGrabWorkers), cfg.Grab.Workers)
	cfg.Grab.Days = ParseInt(l.consume(EnvGrabDays), cfg.Grab.Days)
	cfg.Grab.Offset = ParseInt(l.consume(EnvGrabOffset), cfg.Grab.Offset)

	cfg.Server.Listen = ParseString(l.consume(EnvListen), cfg.Server.Listen)
	cfg.Server.XMLTVPath = ParseString(l.consume(EnvXMLTVPath), cfg.Server.XMLTVPath)
	cfg.Server.RateLimit = ParseInt(l.consume(EnvServerRateLimit), cfg.Server.RateLimit)
	cfg.Server.CacheTTL = ParseDuration(l.consume(EnvCacheTTL), cfg.Server.CacheTTL)

	cfg.Cache.Type = strings.ToLower(ParseString(l.consume(EnvCacheType), cfg.Cache.Type))
	cfg.Cache.RedisAddr = ParseString(l.consume(EnvRedisAddr), cfg.Cache.RedisAddr)
	cfg.Cache.RedisDB = ParseInt(l.consume(EnvRedisDB), cfg.Cache.RedisDB)
	cfg.Cache.Path = ParseString(l.consume(EnvCachePath), cfg.Cache.Path)

	cfg.Store.Path = ParseString(l.consume(EnvStorePath), cfg.Store.Path)

	cfg.Telemetry.Enabled = ParseBool(l.consume(EnvTelemetryEnabled), cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString(l.consume(EnvTelemetryExporter), cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString(l.consume(EnvTelemetryEndpoint), cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = ParseFloat(l.consume(EnvTelemetrySampling), cfg.Telemetry.SamplingRate)
}

// Validate checks the resolved configuration.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.OneOf("logLevel", cfg.LogLevel, []string{"debug", "info", "warn", "error"})

	v.URL("api.baseURL", cfg.API.BaseURL, []string{"http", "https"})
	v.NonNegativeDuration("api.timeout", cfg.API.Timeout)
	v.Min("api.maxRetries", cfg.API.MaxRetries, 0)
	v.NonNegativeDuration("api.retryBackoff", cfg.API.RetryBackoff)
	if cfg.API.RateLimit < 0 {
		v.AddError("api.rateLimit", "must not be negative", cfg.API.RateLimit)
	}
	v.Min("api.rateBurst", cfg.API.RateBurst, 1)
	v.Min("api.maxPages", cfg.API.MaxPages, 1)

	v.Min("grab.workers", cfg.Grab.Workers, 1)
	v.Min("grab.days", cfg.Grab.Days, 1)
	v.Min("grab.offset", cfg.Grab.Offset, 0)

	v.ListenAddr("server.listen", cfg.Server.Listen)
	v.NotEmpty("server.xmltvPath", cfg.Server.XMLTVPath)
	v.Min("server.rateLimit", cfg.Server.RateLimit, 0)
	v.NonNegativeDuration("server.cacheTTL", cfg.Server.CacheTTL)

	v.OneOf("cache.type", cfg.Cache.Type, []string{CacheMemory, CacheRedis, CacheBadger, CacheNone})
	if cfg.Cache.Type == CacheRedis {
		v.NotEmpty("cache.redisAddr", cfg.Cache.RedisAddr)
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}
