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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIngredientsQuantified(t *testing.T) {
	text := "Add two cups of rice, then 3 tablespoons of tomato paste and a pinch of salt."

	ingredients := ExtractIngredients(text)
	require.NotEmpty(t, ingredients)

	byName := make(map[string]Ingredient)
	for _, ing := range ingredients {
		byName[ing.Name] = ing
	}

	rice, ok := byName["rice"]
	require.True(t, ok)
	assert.Equal(t, "two", rice.Quantity)
	assert.Equal(t, "cups", rice.Unit)

	paste, ok := byName["tomato paste"]
	require.True(t, ok)
	assert.Equal(t, "3", paste.Quantity)

	salt, ok := byName["salt"]
	require.True(t, ok)
	assert.Equal(t, "a", salt.Quantity)
	assert.Equal(t, "pinch", salt.Unit)
}

func TestExtractIngredientsBareMentions(t *testing.T) {
	text := "Blend the scotch bonnet with garlic and ginger before frying."

	ingredients := ExtractIngredients(text)
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}

	assert.Contains(t, names, "scotch bonnet")
	assert.Contains(t, names, "garlic")
	assert.Contains(t, names, "ginger")
}

func TestExtractIngredientsEmptyText(t *testing.T) {
	assert.Empty(t, ExtractIngredients(""))
}

func TestIngredientExtractionToolExecute(t *testing.T) {
	tool := NewIngredientExtractionTool()

	result, err := tool.Execute(context.Background(), map[string]any{
		"text": "Add one cup of coconut milk and some thyme.",
	})

	require.NoError(t, err)
	assert.Equal(t, KindComputedValue, result.Kind)
	require.NotNil(t, result.Value)
	assert.Equal(t, "ingredients", result.Value.Label)
	assert.Contains(t, result.Value.Value, "coconut milk")
}

func TestExtractionConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   []Ingredient
		want string
	}{
		{"empty", nil, "low"},
		{"mostly quantified", []Ingredient{{Name: "rice", Quantity: "2"}, {Name: "salt"}}, "high"},
		{"mostly bare", []Ingredient{{Name: "rice", Quantity: "2"}, {Name: "salt"}, {Name: "thyme"}, {Name: "garlic"}}, "medium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractionConfidence(tt.in))
		})
	}
}
