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
	"sort"
	"strings"

	"github.com/minddish/minddish/pkg/catalog"
	"github.com/minddish/minddish/pkg/retrieval"
)

// RecipeComparisonTool retrieves chunks for two or more videos or cuisines
// and diffs their ingredients and techniques.
type RecipeComparisonTool struct {
	adapter *retrieval.Adapter
	catalog *catalog.Catalog
}

// NewRecipeComparisonTool creates the compare_recipes tool.
func NewRecipeComparisonTool(adapter *retrieval.Adapter, cat *catalog.Catalog) *RecipeComparisonTool {
	return &RecipeComparisonTool{adapter: adapter, catalog: cat}
}

// GetInfo returns the tool metadata.
func (t *RecipeComparisonTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        "compare_recipes",
		Description: "Compare ingredients and techniques across two or more videos or cuisines.",
		Parameters: []ToolParameter{
			{Name: "subjects", Type: "array", Description: "Video ids or cuisine names to compare (at least two)", Required: true},
		},
	}
}

// ComparisonDiff is the structured comparison result.
type ComparisonDiff struct {
	Subjects           []string            `json:"subjects"`
	SharedIngredients  []string            `json:"shared_ingredients"`
	DistinctIngredient map[string][]string `json:"distinct_ingredients"`
	SharedTechniques   []string            `json:"shared_techniques"`
	DistinctTechnique  map[string][]string `json:"distinct_techniques"`
}

// Empty reports whether the diff has no distinct items on either axis.
func (d ComparisonDiff) Empty() bool {
	for _, v := range d.DistinctIngredient {
		if len(v) > 0 {
			return false
		}
	}
	for _, v := range d.DistinctTechnique {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

// cookingTechniques are the technique terms mined from transcript text.
var cookingTechniques = []string{
	"fry", "deep fry", "stir fry", "saute", "sauté", "simmer", "boil", "steam",
	"bake", "roast", "grill", "braise", "blend", "marinate", "knead", "whisk",
	"fold", "caramelize", "reduce", "toast", "poach", "sear", "ferment",
}

// Execute retrieves chunks per subject and diffs them.
func (t *RecipeComparisonTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	subjects := StringSliceArg(args, "subjects")
	if len(subjects) < 2 {
		return ToolResult{}, fmt.Errorf("%w: compare_recipes requires at least two subjects", ErrInvalidToolInput)
	}

	// Identical subjects compare equal by definition; skip retrieval.
	if allEqual(subjects) {
		diff := ComparisonDiff{
			Subjects:           subjects,
			SharedIngredients:  []string{},
			DistinctIngredient: map[string][]string{},
			SharedTechniques:   []string{},
			DistinctTechnique:  map[string][]string{},
		}
		return t.result(diff), nil
	}

	ingredientSets := make(map[string]map[string]bool, len(subjects))
	techniqueSets := make(map[string]map[string]bool, len(subjects))

	for _, subject := range subjects {
		text, err := t.gatherText(ctx, subject)
		if err != nil {
			return ToolResult{}, fmt.Errorf("compare_recipes failed for %q: %w", subject, err)
		}

		ingredients := make(map[string]bool)
		for _, ing := range ExtractIngredients(text) {
			ingredients[ing.Name] = true
		}
		ingredientSets[subject] = ingredients

		techniques := make(map[string]bool)
		lower := strings.ToLower(text)
		for _, technique := range cookingTechniques {
			if strings.Contains(lower, technique) {
				techniques[technique] = true
			}
		}
		techniqueSets[subject] = techniques
	}

	diff := ComparisonDiff{
		Subjects:           subjects,
		SharedIngredients:  shared(subjects, ingredientSets),
		DistinctIngredient: distinct(subjects, ingredientSets),
		SharedTechniques:   shared(subjects, techniqueSets),
		DistinctTechnique:  distinct(subjects, techniqueSets),
	}

	return t.result(diff), nil
}

func (t *RecipeComparisonTool) result(diff ComparisonDiff) ToolResult {
	return ToolResult{
		ToolName: "compare_recipes",
		Kind:     KindComputedValue,
		Value: &ComputedValue{
			Label:      "recipe_comparison",
			Value:      summarizeDiff(diff),
			Confidence: "medium",
			Details:    map[string]any{"diff": diff},
		},
	}
}

// gatherText retrieves chunk text for a subject, which may be a video id or
// a cuisine name known to the catalog.
func (t *RecipeComparisonTool) gatherText(ctx context.Context, subject string) (string, error) {
	var filters map[string]any

	if t.catalog != nil && len(t.catalog.ByCuisine(subject)) > 0 {
		filters = map[string]any{"cuisine": strings.ToLower(strings.TrimSpace(subject))}
	} else {
		filters = map[string]any{"video_id": subject}
	}

	chunks, err := t.adapter.Search(ctx, "ingredients and cooking techniques", 0, filters)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Chunk.Text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func allEqual(subjects []string) bool {
	for _, s := range subjects[1:] {
		if s != subjects[0] {
			return false
		}
	}
	return true
}

func shared(subjects []string, sets map[string]map[string]bool) []string {
	out := []string{}
	for item := range sets[subjects[0]] {
		inAll := true
		for _, s := range subjects[1:] {
			if !sets[s][item] {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, item)
		}
	}
	sort.Strings(out)
	return out
}

func distinct(subjects []string, sets map[string]map[string]bool) map[string][]string {
	out := make(map[string][]string, len(subjects))
	for _, subject := range subjects {
		items := []string{}
		for item := range sets[subject] {
			inOther := false
			for _, other := range subjects {
				if other == subject {
					continue
				}
				if sets[other][item] {
					inOther = true
					break
				}
			}
			if !inOther {
				items = append(items, item)
			}
		}
		sort.Strings(items)
		out[subject] = items
	}
	return out
}

func summarizeDiff(diff ComparisonDiff) string {
	if diff.Empty() {
		return "no differences found"
	}
	parts := make([]string, 0, len(diff.Subjects))
	for _, subject := range diff.Subjects {
		n := len(diff.DistinctIngredient[subject]) + len(diff.DistinctTechnique[subject])
		parts = append(parts, fmt.Sprintf("%s: %d distinct items", subject, n))
	}
	return fmt.Sprintf("%d shared ingredients, %d shared techniques; %s",
		len(diff.SharedIngredients), len(diff.SharedTechniques), strings.Join(parts, ", "))
}

// Ensure RecipeComparisonTool implements Tool.
var _ Tool = (*RecipeComparisonTool)(nil)
