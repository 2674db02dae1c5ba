// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

// Command datagen generates the synthetic dataset CSVs: users,
// products, orders and order items. Product names come from the
// configured LLM when an API key is present, otherwise from the
// scripted catalog. The run summary is printed as JSON on stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/abreschi/kumoai-hackathon-2025/internal/config"
	"github.com/abreschi/kumoai-hackathon-2025/internal/generate"
	"github.com/abreschi/kumoai-hackathon-2025/internal/llm"
	"github.com/abreschi/kumoai-hackathon-2025/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("datagen", flag.ContinueOnError)
	fs.Int64Var(&cfg.Generate.Seed, "seed", cfg.Generate.Seed, "random seed")
	fs.StringVar(&cfg.Generate.OutputDir, "output-dir", cfg.Generate.OutputDir, "directory for the CSV files")
	fs.IntVar(&cfg.Generate.Users, "users", cfg.Generate.Users, "number of users")
	fs.IntVar(&cfg.Generate.Orders, "orders", cfg.Generate.Orders, "number of orders")
	fs.IntVar(&cfg.Generate.ProductsPerCategory, "products-per-category", cfg.Generate.ProductsPerCategory, "products generated per category")
	fs.IntVar(&cfg.Generate.BatchSize, "batch-size", cfg.Generate.BatchSize, "products requested per LLM call")
	fs.Float64Var(&cfg.Generate.SimilarBatchPct, "similar-batch-pct", cfg.Generate.SimilarBatchPct, "share of each batch considered for similar variants")
	fs.Float64Var(&cfg.Generate.SimilarSubsetPct, "similar-subset-pct", cfg.Generate.SimilarSubsetPct, "share of considered products that get variants")
	noLLM := fs.Bool("no-llm", false, "skip the LLM and use the scripted catalog")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	var chat generate.ChatClient
	if !*noLLM && cfg.LLM.Available() {
		chat = llm.NewClient(cfg.LLM)
	} else {
		logging.Warn().Msg("LLM not configured, products come from the scripted catalog")
	}

	summary, err := generate.New(cfg.Generate, chat).Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating dataset: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding summary: %v\n", err)
		return 1
	}
	return 0
}
