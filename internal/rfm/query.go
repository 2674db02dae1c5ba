// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package rfm

import "fmt"

// Predictive query builders. The RFM service accepts a PQL-style query
// string over the relational graph built from users, products, orders
// and order_items.

// QuantitySumQuery predicts the total order_items.quantity a user will
// generate within the horizon.
func QuantitySumQuery(userID, horizonDays int) string {
	return fmt.Sprintf(
		"PREDICT SUM(order_items.quantity, 0, %d, days) FOR users.user_id = %d",
		horizonDays, userID)
}

// ProductRankQuery ranks the topK product IDs a user is most likely to
// order within the horizon.
func ProductRankQuery(userID, topK, horizonDays int) string {
	return fmt.Sprintf(
		"PREDICT LIST_DISTINCT(order_items.product_id, 0, %d, days) RANK TOP %d FOR users.user_id = %d",
		horizonDays, topK, userID)
}

// DeliveryWindowRankQuery ranks the topK delivery windows a user is
// most likely to choose within the horizon.
func DeliveryWindowRankQuery(userID, topK, horizonDays int) string {
	return fmt.Sprintf(
		"PREDICT LIST_DISTINCT(orders.delivery_window, 0, %d, days) RANK TOP %d FOR users.user_id = %d",
		horizonDays, topK, userID)
}
