// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

/*
Package config provides centralized configuration for the prediction
CLIs, the dataset generator and the HTTP server.

# Configuration Sources

Loading is layered with koanf v2, later layers overriding earlier ones:

 1. Built-in defaults
 2. Optional YAML config file (config.yaml, or CONFIG_PATH)
 3. Environment variables

Environment names map through an explicit table rather than a generic
prefix rule, so upstream names like KUMO_API_KEY and OPENAI_API_KEY
keep working unchanged. Unmapped environment variables are ignored.

# Environment Variables

Dataset and services:

  - DATA_DIR: CSV dataset directory (default: data)
  - RFM_ENABLED, RFM_API_URL, KUMO_API_KEY, RFM_TIMEOUT
  - OPENAI_API_KEY, OPENAI_BASE_URL, LLM_MODEL

Generator (all prefixed DATAGEN_):

  - DATAGEN_SEED, DATAGEN_OUTPUT_DIR, DATAGEN_USERS, DATAGEN_ORDERS,
    DATAGEN_PRODUCTS_PER_CATEGORY, DATAGEN_BATCH_SIZE and friends

Server and API:

  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - API_DEFAULT_ITEMS, API_MAX_ITEMS, RATE_LIMIT_REQUESTS,
    RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Load validates the result with go-playground/validator struct tags plus
cross-field checks. A missing RFM or LLM API key is deliberately not an
error: the predictor falls back to rule-based heuristics and the
generator to scripted catalogs, so the demo works fully offline. Use
the Available() helpers to check whether a service can be called.

Config is immutable after Load() and safe for concurrent reads.
*/
package config
