// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package predict

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abreschi/kumoai-hackathon-2025/internal/metrics"
	"github.com/abreschi/kumoai-hackathon-2025/internal/rfm"
)

// defaultDeliveryWindows is the canonical slot list served when no
// personalized ranking is available, ordered by typical preference.
var defaultDeliveryWindows = []string{"9am-11am", "11am-1pm", "1pm-3pm", "3pm-5pm", "5pm-7pm"}

// DeliveryTimes suggests up to numSlots delivery windows for the user,
// each labeled Today or Tomorrow relative to the user's timezone. An
// invalid or empty timezone falls back to the server's local time.
func (p *Predictor) DeliveryTimes(ctx context.Context, userID, numSlots int, timezone string) ([]DeliverySlot, error) {
	now := p.now().In(p.resolveLocation(timezone))

	if p.rfmEnabled {
		ranked, err := p.rfm.RankDeliveryWindows(ctx, userID, numSlots, deliveryHorizon)
		if err != nil {
			p.logger.Warn().Err(err).Int("user_id", userID).
				Msg("Delivery window ranking failed, using fallback")
		} else if len(ranked) > 0 {
			slots := p.slotsFromRanking(ranked, now)
			sort.SliceStable(slots, func(i, j int) bool {
				return slots[i].Score > slots[j].Score
			})
			if len(slots) > numSlots {
				slots = slots[:numSlots]
			}
			metrics.RecordPrediction("delivery_times", false)
			return slots, nil
		}
	}

	return p.fallbackDeliveryTimes(numSlots, now), nil
}

func (p *Predictor) resolveLocation(timezone string) *time.Location {
	if timezone == "" || timezone == "UTC" {
		return time.Local
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		p.logger.Warn().Str("timezone", timezone).Msg("Unknown timezone, using local time")
		return time.Local
	}
	return loc
}

func (p *Predictor) slotsFromRanking(ranked []rfm.RankedWindow, now time.Time) []DeliverySlot {
	slots := make([]DeliverySlot, 0, len(ranked))
	for _, r := range ranked {
		slot, err := buildSlot(r.Window, r.Score, now)
		if err != nil {
			p.logger.Warn().Str("window", r.Window).Err(err).
				Msg("Skipping unparseable delivery window")
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

// fallbackDeliveryTimes serves the canonical slot list with decreasing
// preference scores.
func (p *Predictor) fallbackDeliveryTimes(numSlots int, now time.Time) []DeliverySlot {
	windows := defaultDeliveryWindows
	if numSlots < len(windows) {
		windows = windows[:numSlots]
	}

	slots := make([]DeliverySlot, 0, len(windows))
	for i, window := range windows {
		slot, err := buildSlot(window, 0.7-float64(i)*0.1, now)
		if err != nil {
			continue
		}
		slots = append(slots, slot)
	}
	metrics.RecordPrediction("delivery_times", true)
	return slots
}

// buildSlot decides whether a window is still reachable today. A slot
// whose start is in the past, or less than 30 minutes away, rolls over
// to tomorrow.
func buildSlot(window string, score float64, now time.Time) (DeliverySlot, error) {
	hour, err := parseWindowStartHour(window)
	if err != nil {
		return DeliverySlot{}, err
	}

	label := "Today"
	day := now
	if now.Hour() > hour || (now.Hour() == hour && now.Minute() >= 30) {
		label = "Tomorrow"
		day = now.AddDate(0, 0, 1)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
	return DeliverySlot{
		TimeWindow:   window,
		DateLabel:    label,
		FullDatetime: start.Format(time.RFC3339),
		Score:        score,
	}, nil
}

// parseWindowStartHour extracts the 24-hour start of a window like
// "9am-11am" or "5pm-7pm".
func parseWindowStartHour(window string) (int, error) {
	start := strings.ToLower(strings.TrimSpace(strings.SplitN(window, "-", 2)[0]))
	digits := strings.TrimSuffix(strings.TrimSuffix(start, "am"), "pm")
	hour, err := strconv.Atoi(strings.TrimSpace(digits))
	if err != nil {
		return 0, fmt.Errorf("parsing window start %q: %w", window, err)
	}
	switch {
	case strings.HasSuffix(start, "pm") && hour != 12:
		hour += 12
	case strings.HasSuffix(start, "am") && hour == 12:
		hour = 0
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("window start %q out of range", window)
	}
	return hour, nil
}
