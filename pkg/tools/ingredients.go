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
	"regexp"
	"strings"
)

// Ingredient is one parsed ingredient mention.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// IngredientExtractionTool parses ingredient mentions out of transcript
// text. Transcripts are spoken language, so this is heuristic: quantity +
// unit + name phrases, plus bare mentions of known pantry terms.
type IngredientExtractionTool struct{}

// NewIngredientExtractionTool creates the extract_ingredients tool.
func NewIngredientExtractionTool() *IngredientExtractionTool {
	return &IngredientExtractionTool{}
}

// GetInfo returns the tool metadata.
func (t *IngredientExtractionTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        "extract_ingredients",
		Description: "Extract a structured ingredient list from transcript or recipe text.",
		Parameters: []ToolParameter{
			{Name: "text", Type: "string", Description: "The text to parse", Required: true},
		},
	}
}

var (
	quantityPattern = regexp.MustCompile(
		`(?i)\b(\d+(?:[./]\d+)?|a|an|one|two|three|four|five|six|half|quarter|some)\s+` +
			`(cups?|tablespoons?|tbsp|teaspoons?|tsp|grams?|g\b|kilograms?|kg|milliliters?|ml|liters?|pounds?|lbs?|ounces?|oz|cloves?|pinch(?:es)?|handfuls?|bunch(?:es)?|cans?|pieces?|sprigs?)\s+` +
			`(?:of\s+)?([a-z][a-z '-]{1,40}?)(?:[.,;!?]|\s+(?:and|then|until|into|to|for|in|with)\b|$)`)

	// bareIngredients are pantry terms worth reporting even without a
	// quantity in spoken transcripts.
	bareIngredients = []string{
		"scotch bonnet", "bell pepper", "red onion", "spring onion", "bay leaf", "bay leaves",
		"thyme", "basil", "parsley", "cilantro", "coriander", "oregano", "rosemary", "mint",
		"curry powder", "ginger", "garlic", "onion", "tomato", "tomatoes", "paprika",
		"cumin", "turmeric", "nutmeg", "cinnamon", "allspice", "pepper", "salt",
		"rice", "beans", "chicken", "beef", "fish sauce", "fish", "shrimp", "stock", "butter",
		"olive oil", "palm oil", "coconut milk", "flour", "sugar", "eggs", "cheese",
	}
)

// Execute parses the text into an ingredient list.
func (t *IngredientExtractionTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	text := StringArg(args, "text")

	ingredients := ExtractIngredients(text)

	details := make([]any, 0, len(ingredients))
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		details = append(details, ing)
		names = append(names, ing.Name)
	}

	return ToolResult{
		ToolName: "extract_ingredients",
		Kind:     KindComputedValue,
		Value: &ComputedValue{
			Label:      "ingredients",
			Value:      strings.Join(names, ", "),
			Confidence: extractionConfidence(ingredients),
			Details:    map[string]any{"ingredients": details},
		},
	}, nil
}

// ExtractIngredients runs the heuristic parser. Exported for reuse by the
// recipe comparison tool.
func ExtractIngredients(text string) []Ingredient {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var out []Ingredient

	for _, match := range quantityPattern.FindAllStringSubmatch(lower, -1) {
		name := strings.TrimSpace(match[3])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Ingredient{
			Name:     name,
			Quantity: match[1],
			Unit:     strings.TrimSpace(match[2]),
		})
	}

	for _, term := range bareIngredients {
		if seen[term] {
			continue
		}
		if strings.Contains(lower, term) {
			// Skip terms already captured as part of a longer name.
			covered := false
			for existing := range seen {
				if strings.Contains(existing, term) {
					covered = true
					break
				}
			}
			if covered {
				continue
			}
			seen[term] = true
			out = append(out, Ingredient{Name: term})
		}
	}

	return out
}

func extractionConfidence(ingredients []Ingredient) string {
	quantified := 0
	for _, ing := range ingredients {
		if ing.Quantity != "" {
			quantified++
		}
	}
	switch {
	case len(ingredients) == 0:
		return "low"
	case quantified*2 >= len(ingredients):
		return "high"
	default:
		return "medium"
	}
}

// Ensure IngredientExtractionTool implements Tool.
var _ Tool = (*IngredientExtractionTool)(nil)
