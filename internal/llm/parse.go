// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package llm

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ExtractArray pulls a JSON array out of model output. Models asked for
// a JSON array wrapped in an object respond in several shapes:
//
//   - a bare array
//   - {"products": [...]} or any single-key object holding an array
//   - prose with an array embedded somewhere in the text
//
// All three are accepted. Each element is returned as raw JSON for the
// caller to decode into its own type.
func ExtractArray(content string) ([]json.RawMessage, error) {
	content = strings.TrimSpace(content)

	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(content), &arr); err == nil {
		return arr, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &obj); err == nil {
		if raw, ok := obj["products"]; ok {
			if err := json.Unmarshal(raw, &arr); err == nil {
				return arr, nil
			}
		}
		if len(obj) == 1 {
			for _, raw := range obj {
				if err := json.Unmarshal(raw, &arr); err == nil {
					return arr, nil
				}
			}
		}
	}

	// Last resort: slice out the outermost bracketed region.
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(content[start:end+1]), &arr); err == nil {
			return arr, nil
		}
	}

	return nil, fmt.Errorf("no JSON array found in model output")
}
