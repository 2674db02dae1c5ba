// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/abreschi/kumoai-hackathon-2025/internal/config"
	"github.com/abreschi/kumoai-hackathon-2025/internal/dataset"
	"github.com/abreschi/kumoai-hackathon-2025/internal/logging"
	"github.com/abreschi/kumoai-hackathon-2025/internal/predict"
)

// Handler serves the prediction endpoints.
type Handler struct {
	predictor *predict.Predictor
	store     *dataset.Store
	cfg       config.APIConfig
	logger    zerolog.Logger
	started   time.Time
}

// NewHandler creates the endpoint handler.
func NewHandler(predictor *predict.Predictor, store *dataset.Store, cfg config.APIConfig) *Handler {
	return &Handler{
		predictor: predictor,
		store:     store,
		cfg:       cfg,
		logger:    logging.With().Str("component", "api").Logger(),
		started:   time.Now(),
	}
}

// healthResponse reports service liveness and dataset shape.
type healthResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Dataset       dataset.Counts `json:"dataset"`
}

// Health reports liveness plus dataset row counts.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Counts(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "dataset unavailable")
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.started).Seconds(),
		Dataset:       counts,
	})
}

// Cart handles GET /api/v1/users/{userID}/cart.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathInt(w, r, "userID")
	if !ok {
		return
	}
	numItems, ok := h.countParam(w, r, "num_items")
	if !ok {
		return
	}

	items, err := h.predictor.Cart(r.Context(), userID, numItems)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Recommendations handles GET /api/v1/users/{userID}/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathInt(w, r, "userID")
	if !ok {
		return
	}
	numItems, ok := h.countParam(w, r, "num_items")
	if !ok {
		return
	}

	recs, err := h.predictor.Recommendations(r.Context(), userID, numItems)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// DeliveryTimes handles GET /api/v1/users/{userID}/delivery-times.
func (h *Handler) DeliveryTimes(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathInt(w, r, "userID")
	if !ok {
		return
	}
	numSlots, ok := h.countParam(w, r, "num_slots")
	if !ok {
		return
	}
	timezone := r.URL.Query().Get("timezone")

	slots, err := h.predictor.DeliveryTimes(r.Context(), userID, numSlots, timezone)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

// substitutionRateResponse wraps a single product's rate.
type substitutionRateResponse struct {
	ProductID        int     `json:"product_id"`
	SubstitutionRate float64 `json:"substitution_rate"`
}

// SubstitutionRate handles GET /api/v1/products/{productID}/substitution-rate.
func (h *Handler) SubstitutionRate(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.pathInt(w, r, "productID")
	if !ok {
		return
	}

	rate, err := h.predictor.SubstitutionRate(r.Context(), productID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, substitutionRateResponse{
		ProductID:        productID,
		SubstitutionRate: rate,
	})
}

// batchRatesRequest is the body of POST /api/v1/substitution-rates.
type batchRatesRequest struct {
	ProductIDs []int `json:"product_ids"`
}

// BatchSubstitutionRates handles POST /api/v1/substitution-rates.
func (h *Handler) BatchSubstitutionRates(w http.ResponseWriter, r *http.Request) {
	var req batchRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.ProductIDs) == 0 {
		writeError(w, http.StatusBadRequest, "product_ids must not be empty")
		return
	}
	if len(req.ProductIDs) > h.cfg.MaxItems {
		writeError(w, http.StatusBadRequest,
			"product_ids exceeds maximum of "+strconv.Itoa(h.cfg.MaxItems))
		return
	}

	rates, err := h.predictor.BatchSubstitutionRates(r.Context(), req.ProductIDs)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	// JSON object keys must be strings.
	out := make(map[string]float64, len(rates))
	for id, rate := range rates {
		out[strconv.Itoa(id)] = rate
	}
	writeJSON(w, http.StatusOK, out)
}

// rankRequest is the body of POST /api/v1/users/{userID}/rank.
type rankRequest struct {
	ProductIDs []int `json:"product_ids"`
}

// Rank handles POST /api/v1/users/{userID}/rank.
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathInt(w, r, "userID")
	if !ok {
		return
	}

	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.ProductIDs) == 0 {
		writeError(w, http.StatusBadRequest, "product_ids must not be empty")
		return
	}

	ranked, err := h.predictor.Rank(r.Context(), userID, req.ProductIDs)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

// pathInt parses an integer URL parameter, writing a 400 on failure.
func (h *Handler) pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return v, true
}

// countParam parses an optional item-count query parameter, applying
// the configured default and maximum.
func (h *Handler) countParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return h.cfg.DefaultItems, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		writeError(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	if v > h.cfg.MaxItems {
		v = h.cfg.MaxItems
	}
	return v, true
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}
