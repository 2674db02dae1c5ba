// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package predict

// CartItem is one predicted cart entry, ready for JSON output.
type CartItem struct {
	ProductID    int     `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Size         string  `json:"size"`
	Unit         string  `json:"unit"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
}

// Recommendation is one recommended product. Unlike cart items there is
// no quantity; recommendations suggest interest, not a basket line.
type Recommendation struct {
	ProductID    int     `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Size         string  `json:"size"`
	Unit         string  `json:"unit"`
	PricePerUnit float64 `json:"price_per_unit"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
}

// DeliverySlot is one suggested delivery window with its concrete date.
type DeliverySlot struct {
	TimeWindow   string  `json:"time_window"`
	DateLabel    string  `json:"date_label"`
	FullDatetime string  `json:"full_datetime"`
	Score        float64 `json:"score"`
}

// RankedItem is one product in a personalized ranking of a caller
// supplied product list. Rank 1 is the strongest match.
type RankedItem struct {
	ProductID    int     `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Size         string  `json:"size"`
	Unit         string  `json:"unit"`
	PricePerUnit float64 `json:"price_per_unit"`
	KumoRank     int     `json:"kumo_rank"`
}
