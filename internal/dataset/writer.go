// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// writeCSV writes a header row followed by data rows to path.
func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing rows to %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

// WriteUsers writes users.csv.
func WriteUsers(path string, users []User) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.Itoa(u.UserID),
			strconv.Itoa(u.HouseholdSize),
			u.DietaryPreference,
			u.PrimaryShoppingDay,
		})
	}
	return writeCSV(path,
		[]string{"user_id", "household_size", "dietary_preference", "primary_shopping_day"},
		rows)
}

// WriteProducts writes products.csv.
func WriteProducts(path string, products []Product) error {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.Itoa(p.ProductID),
			p.ProductName,
			p.Category,
			p.Brand,
			p.Size,
			p.Unit,
			strconv.FormatFloat(p.PricePerUnit, 'f', 2, 64),
		})
	}
	return writeCSV(path,
		[]string{"product_id", "product_name", "category", "brand", "size", "unit", "price_per_unit"},
		rows)
}

// WriteOrders writes orders.csv.
func WriteOrders(path string, orders []Order) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.Itoa(o.OrderID),
			strconv.Itoa(o.UserID),
			o.OrderTimestamp.Format(TimestampLayout),
			o.DeliveryMethod,
			o.DeliveryWindow,
		})
	}
	return writeCSV(path,
		[]string{"order_id", "user_id", "order_timestamp", "delivery_method", "delivery_window"},
		rows)
}

// WriteOrderItems writes order_items.csv.
func WriteOrderItems(path string, items []OrderItem) error {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			strconv.Itoa(it.OrderID),
			strconv.Itoa(it.ProductID),
			strconv.Itoa(it.Quantity),
			strconv.FormatBool(it.WasSubstituted),
		})
	}
	return writeCSV(path,
		[]string{"order_id", "product_id", "quantity", "was_substituted"},
		rows)
}
