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
	"strings"

	"github.com/minddish/minddish/pkg/safety"
)

// SubstitutionAdvisorTool suggests ingredient substitutions, every
// candidate gated by the safety gate. When all candidates are rejected the
// tool returns the gate's verdict instead of a suggestion; rejection is a
// valid answer, not a failure.
type SubstitutionAdvisorTool struct {
	gate *safety.Gate
}

// NewSubstitutionAdvisorTool creates the suggest_substitution tool.
func NewSubstitutionAdvisorTool(gate *safety.Gate) *SubstitutionAdvisorTool {
	return &SubstitutionAdvisorTool{gate: gate}
}

// GetInfo returns the tool metadata.
func (t *SubstitutionAdvisorTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        "suggest_substitution",
		Description: "Suggest a safe substitution for an ingredient, honoring allergens and diet.",
		Parameters: []ToolParameter{
			{Name: "ingredient", Type: "string", Description: "The ingredient to replace", Required: true},
			{Name: "allergens", Type: "array", Description: "Allergens the user must avoid"},
			{Name: "diet", Type: "string", Description: "Dietary pattern, e.g. vegan, halal"},
			{Name: "recipe", Type: "string", Description: "The target recipe, for context"},
		},
	}
}

// substitutionCandidates maps an ingredient to ordered candidate
// substitutes. Candidates are flavor-faithful: a peanut in a satay sauce is
// replaced by another nut butter, which the gate then judges against the
// user's constraints (a peanut-allergic profile rejects nut butters for
// cross-contamination, by way of the allergen tables).
var substitutionCandidates = map[string][]string{
	"peanut":        {"cashew butter", "almond butter"},
	"peanuts":       {"cashew butter", "almond butter"},
	"peanut butter": {"cashew butter", "almond butter"},
	"butter":        {"ghee", "coconut oil", "olive oil", "margarine"},
	"milk":          {"coconut milk", "oat milk", "almond milk"},
	"cream":         {"coconut cream", "cashew cream"},
	"yogurt":        {"coconut yogurt", "soy yogurt"},
	"egg":           {"flax egg", "mashed banana", "applesauce"},
	"eggs":          {"flax egg", "mashed banana", "applesauce"},
	"fish sauce":    {"soy sauce", "coconut aminos"},
	"soy sauce":     {"tamari", "coconut aminos"},
	"flour":         {"rice flour", "cornstarch", "almond flour"},
	"wheat flour":   {"rice flour", "cornstarch", "almond flour"},
	"chicken":       {"tofu", "chickpeas", "seitan"},
	"beef":          {"lentils", "tempeh", "mushrooms"},
	"pork":          {"chicken", "tofu", "jackfruit"},
	"honey":         {"maple syrup", "agave"},
	"shrimp":        {"tofu", "mushrooms"},
	"cheese":        {"nutritional yeast", "cashew cheese"},
	"ghee":          {"butter", "coconut oil"},
	"palm oil":      {"coconut oil", "vegetable oil"},
	"coconut milk":  {"cream", "oat milk"},
}

// Execute evaluates candidates in order and returns the first accepted one.
func (t *SubstitutionAdvisorTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	ingredient := strings.ToLower(strings.TrimSpace(StringArg(args, "ingredient")))
	constraints := safety.Constraints{
		Allergens: StringSliceArg(args, "allergens"),
		Diet:      StringArg(args, "diet"),
	}

	candidates := substitutionCandidates[ingredient]
	if len(candidates) == 0 {
		return ToolResult{
			ToolName: "suggest_substitution",
			Kind:     KindComputedValue,
			Value: &ComputedValue{
				Label:      "substitution",
				Value:      "no known substitute for " + ingredient,
				Confidence: "low",
			},
		}, nil
	}

	var firstRejection *safety.Verdict
	for _, candidate := range candidates {
		verdict := t.gate.Evaluate(safety.Candidate{
			Original:   ingredient,
			Substitute: candidate,
		}, constraints)

		if !verdict.Accepted {
			if firstRejection == nil {
				v := verdict
				firstRejection = &v
			}
			continue
		}

		v := verdict
		return ToolResult{
			ToolName: "suggest_substitution",
			Kind:     KindComputedValue,
			Value: &ComputedValue{
				Label:      "substitution",
				Value:      candidate,
				Confidence: "high",
				Details: map[string]any{
					"original":   ingredient,
					"substitute": candidate,
					"warnings":   verdict.Warnings,
				},
			},
			Verdict: &v,
		}, nil
	}

	// Every candidate rejected: surface the gate's verdict verbatim, with
	// no substitute attached.
	return ToolResult{
		ToolName: "suggest_substitution",
		Kind:     KindSafetyVerdict,
		Verdict:  firstRejection,
	}, nil
}

// Ensure SubstitutionAdvisorTool implements Tool.
var _ Tool = (*SubstitutionAdvisorTool)(nil)
