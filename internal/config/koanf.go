// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/smartgrocer/config.yaml",
	"/etc/smartgrocer/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "data",
		},
		RFM: RFMConfig{
			Enabled: true,
			URL:     "https://api.kumorfm.ai/v1",
			APIKey:  "",
			Timeout: 30 * time.Second,

			BreakerMaxRequests:      3,
			BreakerInterval:         60 * time.Second,
			BreakerTimeout:          30 * time.Second,
			BreakerFailureThreshold: 5,
		},
		LLM: LLMConfig{
			URL:               "https://api.openai.com/v1",
			APIKey:            "",
			Model:             "gpt-4.1-nano",
			Timeout:           60 * time.Second,
			RequestsPerSecond: 2,
			Burst:             1,
		},
		Generate: GenerateConfig{
			Seed:                42,
			OutputDir:           "data",
			Users:               100,
			Orders:              2000,
			ProductsPerCategory: 50,
			BatchSize:           30,
			SimilarBatchPct:     0.6,
			SimilarSubsetPct:    0.4,
			SubstitutionRate:    0.05,
			HistoryDays:         730,
			PreferredDayBias:    0.7,
		},
		Server: ServerConfig{
			Port:            8180,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			DefaultItems:      10,
			MaxItems:          50,
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults. The result is validated before
// being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// RFM_API_URL -> rfm.url, KUMO_API_KEY -> rfm.api_key
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known
// slice fields. Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file): skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// KUMO_API_KEY and OPENAI_API_KEY keep their upstream names so the same
// environment works for the original demo scripts and this tooling.
//
// Examples:
//   - DATA_DIR -> data.dir
//   - RFM_API_URL -> rfm.url
//   - KUMO_API_KEY -> rfm.api_key
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Dataset location
		"data_dir": "data.dir",

		// RFM service mappings
		"rfm_enabled":               "rfm.enabled",
		"rfm_api_url":               "rfm.url",
		"kumo_api_key":              "rfm.api_key",
		"rfm_timeout":               "rfm.timeout",
		"rfm_breaker_max_requests":  "rfm.breaker_max_requests",
		"rfm_breaker_interval":      "rfm.breaker_interval",
		"rfm_breaker_timeout":       "rfm.breaker_timeout",
		"rfm_breaker_failures":      "rfm.breaker_failure_threshold",

		// LLM mappings (OPENAI_ prefix matches the upstream SDK)
		"openai_api_key":          "llm.api_key",
		"openai_base_url":         "llm.url",
		"llm_model":               "llm.model",
		"llm_timeout":             "llm.timeout",
		"llm_requests_per_second": "llm.requests_per_second",
		"llm_burst":               "llm.burst",

		// Generator mappings
		"datagen_seed":                  "generate.seed",
		"datagen_output_dir":            "generate.output_dir",
		"datagen_users":                 "generate.users",
		"datagen_orders":                "generate.orders",
		"datagen_products_per_category": "generate.products_per_category",
		"datagen_batch_size":            "generate.batch_size",
		"datagen_similar_batch_pct":     "generate.similar_batch_pct",
		"datagen_similar_subset_pct":    "generate.similar_subset_pct",
		"datagen_substitution_rate":     "generate.substitution_rate",
		"datagen_history_days":          "generate.history_days",
		"datagen_preferred_day_bias":    "generate.preferred_day_bias",

		// Server mappings
		"http_port":             "server.port",
		"http_host":             "server.host",
		"http_timeout":          "server.timeout",
		"http_shutdown_timeout": "server.shutdown_timeout",

		// API mappings
		"api_default_items":   "api.default_items",
		"api_max_items":       "api.max_items",
		"rate_limit_requests": "api.rate_limit_reqs",
		"rate_limit_window":   "api.rate_limit_window",
		"disable_rate_limit":  "api.rate_limit_disabled",
		"cors_origins":        "api.cors_origins",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them.
	// This prevents random environment variables from polluting config.
	return ""
}
