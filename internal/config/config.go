// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration loaded from environment
// variables and an optional config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// The prediction CLIs and the HTTP server share this configuration. A
// missing RFM or LLM API key is not a validation error: the predictor
// falls back to rule-based heuristics and the generator to scripted
// catalogs, matching the demo's offline behavior.
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Data     DataConfig     `koanf:"data"`
	RFM      RFMConfig      `koanf:"rfm"`
	LLM      LLMConfig      `koanf:"llm"`
	Generate GenerateConfig `koanf:"generate"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DataConfig locates the CSV dataset the predictor operates on.
//
// Environment Variables:
//   - DATA_DIR: directory containing users.csv, products.csv, orders.csv,
//     order_items.csv (default: data)
type DataConfig struct {
	Dir string `koanf:"dir" validate:"required"`
}

// RFMConfig holds the connection settings for the external relational
// foundation model service that ranks products and delivery windows.
//
// Environment Variables:
//   - RFM_ENABLED: master toggle (default: true)
//   - RFM_API_URL: service base URL
//   - KUMO_API_KEY: API key; when empty the predictor never calls the
//     service and goes straight to fallbacks
//   - RFM_TIMEOUT: per-request timeout (default: 30s)
type RFMConfig struct {
	Enabled bool          `koanf:"enabled"`
	URL     string        `koanf:"url" validate:"omitempty,url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`

	// Circuit breaker settings, applied to every RFM call.
	BreakerMaxRequests      uint32        `koanf:"breaker_max_requests"`
	BreakerInterval         time.Duration `koanf:"breaker_interval"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold" validate:"min=1"`
}

// Available reports whether the RFM service can be called at all.
// Disabled or keyless configurations skip the service entirely.
func (c RFMConfig) Available() bool {
	return c.Enabled && c.APIKey != "" && c.URL != ""
}

// LLMConfig holds the OpenAI-compatible chat-completions settings used
// by the dataset generator for product catalog synthesis.
//
// Environment Variables:
//   - OPENAI_API_KEY: API key; when empty every batch uses the scripted
//     fallback catalog
//   - OPENAI_BASE_URL: endpoint base URL (default: https://api.openai.com/v1)
//   - LLM_MODEL: model name (default: gpt-4.1-nano)
type LLMConfig struct {
	URL     string        `koanf:"url" validate:"omitempty,url"`
	APIKey  string        `koanf:"api_key"`
	Model   string        `koanf:"model" validate:"required"`
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`

	// RequestsPerSecond paces catalog batches to stay inside provider
	// rate limits. Zero disables pacing.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"min=0"`
	Burst             int     `koanf:"burst" validate:"min=0"`
}

// Available reports whether the completions API can be called.
func (c LLMConfig) Available() bool {
	return c.APIKey != "" && c.URL != ""
}

// GenerateConfig drives the synthetic dataset generator.
type GenerateConfig struct {
	Seed                int64   `koanf:"seed"`
	OutputDir           string  `koanf:"output_dir" validate:"required"`
	Users               int     `koanf:"users" validate:"min=1"`
	Orders              int     `koanf:"orders" validate:"min=1"`
	ProductsPerCategory int     `koanf:"products_per_category" validate:"min=1"`
	BatchSize           int     `koanf:"batch_size" validate:"min=1"`
	SimilarBatchPct     float64 `koanf:"similar_batch_pct" validate:"gte=0,lte=1"`
	SimilarSubsetPct    float64 `koanf:"similar_subset_pct" validate:"gte=0,lte=1"`
	SubstitutionRate    float64 `koanf:"substitution_rate" validate:"gte=0,lte=1"`
	HistoryDays         int     `koanf:"history_days" validate:"min=1"`
	PreferredDayBias    float64 `koanf:"preferred_day_bias" validate:"gte=0,lte=1"`
}

// ServerConfig holds HTTP server configuration for cmd/server.
//
// Environment Variables:
//   - HTTP_PORT: listen port (default: 8180)
//   - HTTP_HOST: bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: request read/write timeout (default: 30s)
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Host            string        `koanf:"host" validate:"required"`
	Timeout         time.Duration `koanf:"timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`
}

// APIConfig holds API surface limits.
type APIConfig struct {
	DefaultItems      int           `koanf:"default_items" validate:"min=1"`
	MaxItems          int           `koanf:"max_items" validate:"min=1"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"min=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// validate is shared; validator instances cache struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for structural and semantic errors.
// Structural checks come from validator struct tags; semantic checks
// cover cross-field constraints the tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.API.DefaultItems > c.API.MaxItems {
		return fmt.Errorf("api.default_items (%d) exceeds api.max_items (%d)",
			c.API.DefaultItems, c.API.MaxItems)
	}

	return nil
}
