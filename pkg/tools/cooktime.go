// Copyright 2025 The MindDish Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tools

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CookingTimeEstimationTool sums explicit time cues out of instruction text.
// When cues are missing or ambiguous it still answers, with a clearly
// marked low-confidence estimate instead of failing.
type CookingTimeEstimationTool struct{}

// NewCookingTimeEstimationTool creates the estimate_cooking_time tool.
func NewCookingTimeEstimationTool() *CookingTimeEstimationTool {
	return &CookingTimeEstimationTool{}
}

// GetInfo returns the tool metadata.
func (t *CookingTimeEstimationTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        "estimate_cooking_time",
		Description: "Estimate total cooking time from instructions or transcript text.",
		Parameters: []ToolParameter{
			{Name: "instructions", Type: "string", Description: "The instructions to analyze", Required: true},
		},
	}
}

var durationPattern = regexp.MustCompile(
	`(?i)\b(\d+)(?:\s*(?:to|-)\s*(\d+))?\s*(hours?|hrs?|minutes?|mins?|seconds?|secs?)\b`)

// Execute estimates the total duration.
func (t *CookingTimeEstimationTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	instructions := StringArg(args, "instructions")

	total, cues := sumTimeCues(instructions)

	confidence := "high"
	note := fmt.Sprintf("summed from %d explicit time cues", cues)

	switch {
	case cues == 0:
		// No explicit cues: fall back to a per-step heuristic so the
		// tool still answers.
		steps := countSteps(instructions)
		total = time.Duration(steps) * 5 * time.Minute
		confidence = "low"
		note = fmt.Sprintf("no explicit time cues; rough estimate of 5 minutes per step across %d steps", steps)
	case cues == 1:
		confidence = "medium"
		note = "based on a single explicit time cue"
	}

	if strings.Contains(strings.ToLower(instructions), "overnight") {
		total += 8 * time.Hour
		note += "; includes 8h for an overnight step"
	}

	return ToolResult{
		ToolName: "estimate_cooking_time",
		Kind:     KindComputedValue,
		Value: &ComputedValue{
			Label:      "estimated_cooking_time",
			Value:      formatDuration(total),
			Confidence: confidence,
			Details: map[string]any{
				"total_minutes": int(total.Minutes()),
				"time_cues":     cues,
				"note":          note,
			},
		},
	}, nil
}

// sumTimeCues adds up duration mentions; ranges like "20 to 25 minutes" use
// the midpoint.
func sumTimeCues(text string) (time.Duration, int) {
	var total time.Duration
	matches := durationPattern.FindAllStringSubmatch(text, -1)

	for _, m := range matches {
		lo, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		value := float64(lo)
		if m[2] != "" {
			if hi, err := strconv.Atoi(m[2]); err == nil {
				value = (float64(lo) + float64(hi)) / 2
			}
		}

		unit := strings.ToLower(m[3])
		switch {
		case strings.HasPrefix(unit, "h"):
			total += time.Duration(value * float64(time.Hour))
		case strings.HasPrefix(unit, "m"):
			total += time.Duration(value * float64(time.Minute))
		case strings.HasPrefix(unit, "s"):
			total += time.Duration(value * float64(time.Second))
		}
	}

	return total, len(matches)
}

// countSteps counts sentence-ish instruction boundaries, minimum 1.
func countSteps(text string) int {
	steps := 0
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == ';' || r == '\n'
	}) {
		if len(strings.TrimSpace(part)) > 3 {
			steps++
		}
	}
	if steps == 0 {
		steps = 1
	}
	return steps
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// Ensure CookingTimeEstimationTool implements Tool.
var _ Tool = (*CookingTimeEstimationTool)(nil)
