// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/abreschi/kumoai-hackathon-2025/internal/logging"
	"github.com/abreschi/kumoai-hackathon-2025/internal/metrics"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("dataset: not found")

// tableFiles maps dataset tables to their CSV file names.
var tableFiles = map[string]string{
	"users":       "users.csv",
	"products":    "products.csv",
	"orders":      "orders.csv",
	"order_items": "order_items.csv",
}

// Store loads the four dataset CSVs into an in-memory DuckDB database
// and serves the aggregations the predictor needs: product lookups,
// historical average quantities, substitution rates, and rule-based
// candidate selection.
//
// All methods are safe for concurrent use; the underlying tables are
// immutable after Open.
type Store struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// Open loads the CSVs under dir into an in-memory DuckDB instance.
// Missing or unreadable files are a hard error: every operation needs
// the full relational dataset.
func Open(ctx context.Context, dir string) (*Store, error) {
	// Auto-install/auto-load disabled: CSV ingestion needs no extensions
	// and this prevents hangs in restricted network environments.
	conn, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		conn:   conn,
		logger: logging.With().Str("component", "dataset").Logger(),
	}

	if err := s.loadTables(ctx, dir); err != nil {
		_ = conn.Close()
		return nil, err
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	s.logger.Info().
		Int64("users", counts.Users).
		Int64("products", counts.Products).
		Int64("orders", counts.Orders).
		Int64("order_items", counts.OrderItems).
		Str("dir", dir).
		Msg("Dataset loaded")

	return s, nil
}

// loadTables ingests each CSV with read_csv_auto and casts columns to
// stable types. Boolean parsing goes through VARCHAR so both Go-written
// (true/false) and pandas-written (True/False) files load identically.
func (s *Store) loadTables(ctx context.Context, dir string) error {
	type tableDef struct {
		name   string
		create string
	}

	defs := []tableDef{
		{"users", `CREATE TABLE users AS
			SELECT user_id::INTEGER AS user_id,
			       household_size::INTEGER AS household_size,
			       dietary_preference::VARCHAR AS dietary_preference,
			       primary_shopping_day::VARCHAR AS primary_shopping_day
			FROM read_csv_auto(%s, header=true)`},
		{"products", `CREATE TABLE products AS
			SELECT product_id::INTEGER AS product_id,
			       product_name::VARCHAR AS product_name,
			       category::VARCHAR AS category,
			       brand::VARCHAR AS brand,
			       size::VARCHAR AS size,
			       unit::VARCHAR AS unit,
			       price_per_unit::DOUBLE AS price_per_unit
			FROM read_csv_auto(%s, header=true)`},
		{"orders", `CREATE TABLE orders AS
			SELECT order_id::INTEGER AS order_id,
			       user_id::INTEGER AS user_id,
			       order_timestamp::TIMESTAMP AS order_timestamp,
			       delivery_method::VARCHAR AS delivery_method,
			       delivery_window::VARCHAR AS delivery_window
			FROM read_csv_auto(%s, header=true)`},
		{"order_items", `CREATE TABLE order_items AS
			SELECT order_id::INTEGER AS order_id,
			       product_id::INTEGER AS product_id,
			       quantity::INTEGER AS quantity,
			       lower(was_substituted::VARCHAR) IN ('true', '1') AS was_substituted
			FROM read_csv_auto(%s, header=true)`},
	}

	for _, def := range defs {
		path := filepath.Join(dir, tableFiles[def.name])
		stmt := fmt.Sprintf(def.create, quoteLiteral(path))
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to load %s from %s: %w", def.name, path, err)
		}
	}

	return nil
}

// quoteLiteral renders a string as a single-quoted SQL literal.
func quoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// UserByID returns the user row, or ErrNotFound.
func (s *Store) UserByID(ctx context.Context, userID int) (*User, error) {
	start := time.Now()
	var u User
	err := s.conn.QueryRowContext(ctx,
		`SELECT user_id, household_size, dietary_preference, primary_shopping_day
		 FROM users WHERE user_id = ?`, userID).
		Scan(&u.UserID, &u.HouseholdSize, &u.DietaryPreference, &u.PrimaryShoppingDay)
	metrics.RecordStoreQuery("user_by_id", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %d: %w", userID, err)
	}
	return &u, nil
}

// ProductByID returns the product row, or ErrNotFound.
func (s *Store) ProductByID(ctx context.Context, productID int) (*Product, error) {
	start := time.Now()
	var p Product
	err := s.conn.QueryRowContext(ctx,
		`SELECT product_id, product_name, category, brand, size, unit, price_per_unit
		 FROM products WHERE product_id = ?`, productID).
		Scan(&p.ProductID, &p.ProductName, &p.Category, &p.Brand, &p.Size, &p.Unit, &p.PricePerUnit)
	metrics.RecordStoreQuery("product_by_id", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying product %d: %w", productID, err)
	}
	return &p, nil
}

// ProductsByIDs returns the product rows for the given IDs, keyed by
// product ID. Unknown IDs are simply absent from the result.
func (s *Store) ProductsByIDs(ctx context.Context, productIDs []int) (map[int]Product, error) {
	result := make(map[int]Product, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(productIDs))
	args := make([]any, len(productIDs))
	for i, id := range productIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	start := time.Now()
	query := fmt.Sprintf(
		`SELECT product_id, product_name, category, brand, size, unit, price_per_unit
		 FROM products WHERE product_id IN (%s)`, strings.Join(placeholders, ", "))
	rows, err := s.conn.QueryContext(ctx, query, args...)
	metrics.RecordStoreQuery("products_by_ids", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Category, &p.Brand,
			&p.Size, &p.Unit, &p.PricePerUnit); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		result[p.ProductID] = p
	}
	return result, rows.Err()
}

// AverageQuantities returns the rounded mean order quantity per product
// across all order items. Products never ordered are absent; callers
// default those to 1.
func (s *Store) AverageQuantities(ctx context.Context) (map[int]int, error) {
	start := time.Now()
	rows, err := s.conn.QueryContext(ctx,
		`SELECT product_id, CAST(round(avg(quantity)) AS INTEGER)
		 FROM order_items GROUP BY product_id`)
	metrics.RecordStoreQuery("average_quantities", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("querying average quantities: %w", err)
	}
	defer rows.Close()

	result := make(map[int]int)
	for rows.Next() {
		var productID, avg int
		if err := rows.Scan(&productID, &avg); err != nil {
			return nil, fmt.Errorf("scanning average quantity: %w", err)
		}
		result[productID] = avg
	}
	return result, rows.Err()
}

// SubstitutionStats returns how many order items reference the product
// and the observed substitution rate among them. A zero observation
// count means the caller must synthesize a rate.
func (s *Store) SubstitutionStats(ctx context.Context, productID int) (int64, float64, error) {
	start := time.Now()
	var observations int64
	var rate sql.NullFloat64
	err := s.conn.QueryRowContext(ctx,
		`SELECT count(*), avg(CASE WHEN was_substituted THEN 1.0 ELSE 0.0 END)
		 FROM order_items WHERE product_id = ?`, productID).
		Scan(&observations, &rate)
	metrics.RecordStoreQuery("substitution_stats", time.Since(start), err)
	if err != nil {
		return 0, 0, fmt.Errorf("querying substitution stats for product %d: %w", productID, err)
	}
	return observations, rate.Float64, nil
}

// CandidateProducts returns up to limit products for rule-based
// predictions. Vegetarian users only see Produce. Larger households
// sort cheapest-first, smaller ones priciest-first; product_id breaks
// ties so results are deterministic.
func (s *Store) CandidateProducts(ctx context.Context, dietaryPreference string, priceAscending bool, limit int) ([]Product, error) {
	where := ""
	if dietaryPreference == "vegetarian" {
		where = "WHERE category = 'Produce'"
	}
	direction := "DESC"
	if priceAscending {
		direction = "ASC"
	}

	start := time.Now()
	query := fmt.Sprintf(
		`SELECT product_id, product_name, category, brand, size, unit, price_per_unit
		 FROM products %s ORDER BY price_per_unit %s, product_id ASC LIMIT ?`, where, direction)
	rows, err := s.conn.QueryContext(ctx, query, limit)
	metrics.RecordStoreQuery("candidate_products", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("querying candidate products: %w", err)
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Category, &p.Brand,
			&p.Size, &p.Unit, &p.PricePerUnit); err != nil {
			return nil, fmt.Errorf("scanning candidate product: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// ProductsByPreference returns up to limit products matching the
// dietary preference in catalog order. Unlike CandidateProducts there
// is no price sorting; recommendation fallbacks present the catalog
// as-is.
func (s *Store) ProductsByPreference(ctx context.Context, dietaryPreference string, limit int) ([]Product, error) {
	where := ""
	if dietaryPreference == "vegetarian" {
		where = "WHERE category = 'Produce'"
	}

	start := time.Now()
	query := fmt.Sprintf(
		`SELECT product_id, product_name, category, brand, size, unit, price_per_unit
		 FROM products %s ORDER BY product_id ASC LIMIT ?`, where)
	rows, err := s.conn.QueryContext(ctx, query, limit)
	metrics.RecordStoreQuery("products_by_preference", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("querying products by preference: %w", err)
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Category, &p.Brand,
			&p.Size, &p.Unit, &p.PricePerUnit); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Counts returns per-table row counts.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	start := time.Now()
	var c Counts
	err := s.conn.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM users),
		        (SELECT count(*) FROM products),
		        (SELECT count(*) FROM orders),
		        (SELECT count(*) FROM order_items)`).
		Scan(&c.Users, &c.Products, &c.Orders, &c.OrderItems)
	metrics.RecordStoreQuery("counts", time.Since(start), err)
	if err != nil {
		return Counts{}, fmt.Errorf("querying table counts: %w", err)
	}

	metrics.StoreRowsLoaded.WithLabelValues("users").Set(float64(c.Users))
	metrics.StoreRowsLoaded.WithLabelValues("products").Set(float64(c.Products))
	metrics.StoreRowsLoaded.WithLabelValues("orders").Set(float64(c.Orders))
	metrics.StoreRowsLoaded.WithLabelValues("order_items").Set(float64(c.OrderItems))
	return c, nil
}
