// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

// Command server exposes the prediction operations over HTTP for the
// demo UI, supervised so a crashed listener restarts with backoff.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/abreschi/kumoai-hackathon-2025/internal/api"
	"github.com/abreschi/kumoai-hackathon-2025/internal/config"
	"github.com/abreschi/kumoai-hackathon-2025/internal/dataset"
	"github.com/abreschi/kumoai-hackathon-2025/internal/logging"
	"github.com/abreschi/kumoai-hackathon-2025/internal/predict"
	"github.com/abreschi/kumoai-hackathon-2025/internal/rfm"
	"github.com/abreschi/kumoai-hackathon-2025/internal/supervisor"
)

func main() {
	os.Exit(run())
}

func run() int {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := dataset.Open(ctx, cfg.Data.Dir)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load dataset")
		return 1
	}
	defer store.Close()

	var svc rfm.Service
	if cfg.RFM.Available() {
		svc = rfm.NewCircuitBreakerClient(cfg.RFM)
		logging.Info().Str("url", cfg.RFM.URL).Msg("RFM service configured")
	} else {
		logging.Warn().Msg("RFM service not configured, predictions use fallbacks")
	}
	predictor := predict.New(store, svc, cfg.RFM.Available())

	handler := api.NewHandler(predictor, store, cfg.API)
	router := api.NewRouter(handler, cfg.API)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.Config{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.Add(supervisor.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", addr).Msg("Server starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor terminated")
		return 1
	}
	logging.Info().Msg("Server stopped")
	return 0
}
