// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

// Command predict runs one prediction operation against the dataset
// and prints the result as a single JSON document on stdout. All
// diagnostics go to stderr so the output stays machine-readable.
//
// Usage:
//
//	predict cart <user_id> [num_items]
//	predict recommendations <user_id> [num_items]
//	predict delivery-times <user_id> [num_slots] [timezone]
//	predict substitution-rate <product_id>
//	predict batch-substitution-rates <id,id,...>
//	predict rank <product_ids_json> <user_id>
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/abreschi/kumoai-hackathon-2025/internal/config"
	"github.com/abreschi/kumoai-hackathon-2025/internal/dataset"
	"github.com/abreschi/kumoai-hackathon-2025/internal/logging"
	"github.com/abreschi/kumoai-hackathon-2025/internal/predict"
	"github.com/abreschi/kumoai-hackathon-2025/internal/rfm"
)

const usage = `Usage: predict <operation> <args>

Operations:
  cart <user_id> [num_items]
  recommendations <user_id> [num_items]
  delivery-times <user_id> [num_slots] [timezone]
  substitution-rate <product_id>
  batch-substitution-rates <id,id,...>
  rank <product_ids_json> <user_id>`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	ctx := context.Background()
	store, err := dataset.Open(ctx, cfg.Data.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		return 1
	}
	defer store.Close()

	var svc rfm.Service
	if cfg.RFM.Available() {
		svc = rfm.NewCircuitBreakerClient(cfg.RFM)
	} else {
		logging.Warn().Msg("RFM service not configured, predictions use fallbacks")
	}
	predictor := predict.New(store, svc, cfg.RFM.Available())

	result, err := runOperation(ctx, predictor, cfg, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if strings.Contains(err.Error(), "usage") {
			fmt.Fprintln(os.Stderr, usage)
		}
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		return 1
	}
	return 0
}

// runOperation dispatches the CLI operation and returns the value to
// print.
func runOperation(ctx context.Context, p *predict.Predictor, cfg *config.Config, args []string) (any, error) {
	operation := args[0]

	switch operation {
	case "cart":
		userID, n, err := userAndCount(args[1:], cfg.API.DefaultItems)
		if err != nil {
			return nil, err
		}
		return p.Cart(ctx, userID, n)

	case "recommendations":
		userID, n, err := userAndCount(args[1:], cfg.API.DefaultItems)
		if err != nil {
			return nil, err
		}
		return p.Recommendations(ctx, userID, n)

	case "delivery-times":
		userID, n, err := userAndCount(args[1:], 3)
		if err != nil {
			return nil, err
		}
		timezone := "UTC"
		if len(args) > 3 {
			timezone = args[3]
		}
		return p.DeliveryTimes(ctx, userID, n, timezone)

	case "substitution-rate":
		productID, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("usage: product_id must be an integer, got %q", args[1])
		}
		return p.SubstitutionRate(ctx, productID)

	case "batch-substitution-rates":
		ids, err := parseIDList(args[1])
		if err != nil {
			return nil, err
		}
		rates, err := p.BatchSubstitutionRates(ctx, ids)
		if err != nil {
			return nil, err
		}
		// Stable string keys for the JSON object.
		out := make(map[string]float64, len(rates))
		for id, rate := range rates {
			out[strconv.Itoa(id)] = rate
		}
		return out, nil

	case "rank":
		if len(args) < 3 {
			return nil, fmt.Errorf("usage: rank <product_ids_json> <user_id>")
		}
		var ids []int
		if err := json.Unmarshal([]byte(args[1]), &ids); err != nil {
			return nil, fmt.Errorf("usage: product_ids must be a JSON array of integers: %w", err)
		}
		userID, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("usage: user_id must be an integer, got %q", args[2])
		}
		return p.Rank(ctx, userID, ids)

	default:
		return nil, fmt.Errorf("usage: unknown operation %q", operation)
	}
}

// userAndCount parses "<user_id> [count]" argument pairs.
func userAndCount(args []string, defaultCount int) (int, int, error) {
	if len(args) < 1 {
		return 0, 0, fmt.Errorf("usage: user_id is required")
	}
	userID, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("usage: user_id must be an integer, got %q", args[0])
	}
	count := defaultCount
	if len(args) > 1 {
		count, err = strconv.Atoi(args[1])
		if err != nil || count < 1 {
			return 0, 0, fmt.Errorf("usage: count must be a positive integer, got %q", args[1])
		}
	}
	return userID, count, nil
}

// parseIDList parses a comma-separated product ID list.
func parseIDList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("usage: product_ids must be comma-separated integers, got %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
