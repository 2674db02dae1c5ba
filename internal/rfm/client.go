// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package rfm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abreschi/kumoai-hackathon-2025/internal/config"
	"github.com/abreschi/kumoai-hackathon-2025/internal/logging"
	"github.com/abreschi/kumoai-hackathon-2025/internal/metrics"
)

// Service is the predictive surface the predictor consumes. Implemented
// by Client and by CircuitBreakerClient.
type Service interface {
	// QuantityForecast predicts the total item quantity a user will
	// order within the horizon.
	QuantityForecast(ctx context.Context, userID, horizonDays int) (float64, error)

	// RankProducts returns product IDs ranked by predicted interest.
	RankProducts(ctx context.Context, userID, topK, horizonDays int) ([]RankedProduct, error)

	// RankDeliveryWindows returns delivery windows ranked by predicted
	// preference.
	RankDeliveryWindows(ctx context.Context, userID, topK, horizonDays int) ([]RankedWindow, error)
}

// RankedProduct is one entry of a product ranking result.
type RankedProduct struct {
	ProductID int
	Score     float64
}

// RankedWindow is one entry of a delivery-window ranking result.
type RankedWindow struct {
	Window string
	Score  float64
}

// Row is a single result row from the RFM service. Rank queries fill
// Class and Score; aggregate queries fill TargetPred.
type Row struct {
	Class      string   `json:"class"`
	Score      *float64 `json:"score"`
	TargetPred float64  `json:"target_pred"`
}

// ScoreOrDefault returns the row score, defaulting to 0.5 when the
// service omitted it.
func (r Row) ScoreOrDefault() float64 {
	if r.Score == nil {
		return 0.5
	}
	return *r.Score
}

// Result is the RFM service response body.
type Result struct {
	Rows []Row `json:"rows"`
}

// predictRequest is the RFM service request body.
type predictRequest struct {
	Query string `json:"query"`
}

// Client is a plain HTTP client for the RFM service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates an RFM client from configuration.
func NewClient(cfg config.RFMConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.With().Str("component", "rfm").Logger(),
	}
}

// predict POSTs a query to the service and decodes the result.
func (c *Client) predict(ctx context.Context, queryType, query string) (*Result, error) {
	start := time.Now()
	result, err := c.doPredict(ctx, query)
	metrics.RecordRFMRequest(queryType, time.Since(start), err)
	if err != nil {
		c.logger.Warn().Err(err).Str("query_type", queryType).Msg("RFM query failed")
		return nil, err
	}
	c.logger.Debug().
		Str("query_type", queryType).
		Int("rows", len(result.Rows)).
		Dur("elapsed", time.Since(start)).
		Msg("RFM query completed")
	return result, nil
}

func (c *Client) doPredict(ctx context.Context, query string) (*Result, error) {
	body, err := json.Marshal(predictRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("encoding predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling RFM service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Small read keeps error messages useful without buffering
		// arbitrarily large bodies.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("RFM service returned status %d: %s", resp.StatusCode, snippet)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding predict response: %w", err)
	}
	return &result, nil
}

// QuantityForecast implements Service.
func (c *Client) QuantityForecast(ctx context.Context, userID, horizonDays int) (float64, error) {
	result, err := c.predict(ctx, "sum", QuantitySumQuery(userID, horizonDays))
	if err != nil {
		return 0, err
	}
	if len(result.Rows) == 0 {
		return 0, fmt.Errorf("empty forecast result for user %d", userID)
	}
	return result.Rows[0].TargetPred, nil
}

// RankProducts implements Service. Rows whose class is not a numeric
// product ID are skipped.
func (c *Client) RankProducts(ctx context.Context, userID, topK, horizonDays int) ([]RankedProduct, error) {
	result, err := c.predict(ctx, "rank", ProductRankQuery(userID, topK, horizonDays))
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedProduct, 0, len(result.Rows))
	for _, row := range result.Rows {
		id, err := strconv.Atoi(row.Class)
		if err != nil {
			c.logger.Warn().Str("class", row.Class).Msg("Skipping non-numeric product class")
			continue
		}
		ranked = append(ranked, RankedProduct{ProductID: id, Score: row.ScoreOrDefault()})
	}
	return ranked, nil
}

// RankDeliveryWindows implements Service. Empty classes are skipped.
func (c *Client) RankDeliveryWindows(ctx context.Context, userID, topK, horizonDays int) ([]RankedWindow, error) {
	result, err := c.predict(ctx, "rank", DeliveryWindowRankQuery(userID, topK, horizonDays))
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedWindow, 0, len(result.Rows))
	for _, row := range result.Rows {
		if row.Class == "" {
			continue
		}
		ranked = append(ranked, RankedWindow{Window: row.Class, Score: row.ScoreOrDefault()})
	}
	return ranked, nil
}
