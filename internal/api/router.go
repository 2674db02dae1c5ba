// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abreschi/kumoai-hackathon-2025/internal/config"
)

// NewRouter wires the full route tree.
func NewRouter(handler *Handler, cfg config.APIConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order.
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(cfg))
	r.Use(instrument)

	r.Get("/healthz", handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimiter(cfg))

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/cart", handler.Cart)
			r.Get("/recommendations", handler.Recommendations)
			r.Get("/delivery-times", handler.DeliveryTimes)
			r.Post("/rank", handler.Rank)
		})

		r.Get("/products/{productID}/substitution-rate", handler.SubstitutionRate)
		r.Post("/substitution-rates", handler.BatchSubstitutionRates)
	})

	return r
}
