// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrEmptyResponse means the server answered without any content.
	ErrEmptyResponse = errors.New("llm: empty response")

	// ErrNoJSONObject means the content holds no decodable JSON object.
	ErrNoJSONObject = errors.New("llm: no json object in response")
)

// ExtractJSONObject returns the JSON object embedded in model output.
// Code fences are stripped, then everything from the first '{' to the last
// '}' is decoded. Numbers are kept as json.Number.
func ExtractJSONObject(content string) (map[string]any, error) {
	trimmed := strings.TrimSpace(stripCodeFence(content))
	if trimmed == "" {
		return nil, ErrEmptyResponse
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: %s", ErrNoJSONObject, snippet([]byte(trimmed)))
	}

	dec := json.NewDecoder(strings.NewReader(trimmed[start : end+1]))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSONObject, err)
	}
	if obj == nil {
		return nil, ErrNoJSONObject
	}
	return obj, nil
}

// stripCodeFence removes a leading ``` or ```json fence and its closing
// fence. Text without a fence is returned unchanged.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "json")
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
