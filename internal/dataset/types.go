// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package dataset

import "time"

// TimestampLayout is the order_timestamp format used in orders.csv.
const TimestampLayout = "2006-01-02 15:04:05"

// User is one row of users.csv.
type User struct {
	UserID             int    `json:"user_id"`
	HouseholdSize      int    `json:"household_size"`
	DietaryPreference  string `json:"dietary_preference"`
	PrimaryShoppingDay string `json:"primary_shopping_day"`
}

// Product is one row of products.csv.
type Product struct {
	ProductID    int     `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Category     string  `json:"category"`
	Brand        string  `json:"brand"`
	Size         string  `json:"size"`
	Unit         string  `json:"unit"`
	PricePerUnit float64 `json:"price_per_unit"`
}

// Order is one row of orders.csv.
type Order struct {
	OrderID        int       `json:"order_id"`
	UserID         int       `json:"user_id"`
	OrderTimestamp time.Time `json:"order_timestamp"`
	DeliveryMethod string    `json:"delivery_method"`
	DeliveryWindow string    `json:"delivery_window"`
}

// OrderItem is one row of order_items.csv. ProductID points at the
// delivered product; when WasSubstituted is true that product replaced
// the one originally picked.
type OrderItem struct {
	OrderID        int  `json:"order_id"`
	ProductID      int  `json:"product_id"`
	Quantity       int  `json:"quantity"`
	WasSubstituted bool `json:"was_substituted"`
}

// Counts summarizes the loaded dataset.
type Counts struct {
	Users      int64 `json:"users"`
	Products   int64 `json:"products"`
	Orders     int64 `json:"orders"`
	OrderItems int64 `json:"order_items"`
}
