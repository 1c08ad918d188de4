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

package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateAllergenRejection(t *testing.T) {
	gate := NewGate()

	verdict := gate.Evaluate(
		Candidate{Original: "butter", Substitute: "peanut butter"},
		Constraints{Allergens: []string{"peanut"}},
	)

	require.False(t, verdict.Accepted)
	require.Len(t, verdict.Stages, 1, "allergen fail must short-circuit later stages")
	assert.Equal(t, StageAllergen, verdict.Stages[0].Stage)
	assert.Equal(t, OutcomeFail, verdict.Stages[0].Outcome)
	assert.Contains(t, verdict.Reason, "peanut")
}

func TestEvaluateCrossContactRejection(t *testing.T) {
	gate := NewGate()

	// A peanut allergy rejects tree nut butters too: shared processing
	// equipment makes them a cross-contact risk.
	for _, substitute := range []string{"almond butter", "cashew butter"} {
		verdict := gate.Evaluate(
			Candidate{Original: "peanut", Substitute: substitute},
			Constraints{Allergens: []string{"peanut"}},
		)

		require.False(t, verdict.Accepted, "substitute %q should be rejected", substitute)
		assert.Contains(t, verdict.Reason, "peanut")
	}
}

func TestEvaluateDietaryRejection(t *testing.T) {
	tests := []struct {
		name       string
		substitute string
		diet       string
		accepted   bool
	}{
		{"vegan rejects ghee", "ghee", "vegan", false},
		{"vegan accepts coconut oil", "coconut oil", "vegan", true},
		{"halal rejects bacon", "bacon", "halal", false},
		{"vegetarian accepts tofu", "tofu", "vegetarian", true},
		{"no diet accepts anything", "bacon", "", true},
	}

	gate := NewGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := gate.Evaluate(
				Candidate{Original: "butter", Substitute: tt.substitute},
				Constraints{Diet: tt.diet},
			)
			assert.Equal(t, tt.accepted, verdict.Accepted)
		})
	}
}

func TestEvaluateUnrecognizedDietWarns(t *testing.T) {
	gate := NewGate()

	verdict := gate.Evaluate(
		Candidate{Original: "butter", Substitute: "olive oil"},
		Constraints{Diet: "paleo"},
	)

	require.True(t, verdict.Accepted)
	require.NotEmpty(t, verdict.Warnings)
	assert.Contains(t, verdict.Warnings[0], "paleo")
}

func TestEvaluateNutritionalWarningCarriesForward(t *testing.T) {
	gate := NewGate()

	// Sweetener for meat is a category mismatch: warn, never fail.
	verdict := gate.Evaluate(
		Candidate{Original: "chicken", Substitute: "maple syrup"},
		Constraints{},
	)

	require.True(t, verdict.Accepted)
	require.Len(t, verdict.Stages, 3)
	assert.Equal(t, OutcomeWarn, verdict.Stages[2].Outcome)
	assert.NotEmpty(t, verdict.Warnings)
}

func TestEvaluateCompatibleCategoriesPass(t *testing.T) {
	gate := NewGate()

	// Dairy -> plant fat is an accepted substitution axis.
	verdict := gate.Evaluate(
		Candidate{Original: "butter", Substitute: "coconut oil"},
		Constraints{},
	)

	require.True(t, verdict.Accepted)
	assert.Empty(t, verdict.Warnings)
}

func TestEvaluateStageOrder(t *testing.T) {
	gate := NewGate()

	// Substitute violates both the allergen profile and the diet; the
	// allergen stage must be the one that rejects.
	verdict := gate.Evaluate(
		Candidate{Original: "butter", Substitute: "cream"},
		Constraints{Allergens: []string{"dairy"}, Diet: "vegan"},
	)

	require.False(t, verdict.Accepted)
	assert.Equal(t, StageAllergen, verdict.Stages[len(verdict.Stages)-1].Stage)
}

func TestEvaluateIsStateless(t *testing.T) {
	gate := NewGate()
	candidate := Candidate{Original: "milk", Substitute: "oat milk"}

	first := gate.Evaluate(candidate, Constraints{Diet: "vegan"})
	second := gate.Evaluate(candidate, Constraints{Diet: "vegan"})

	assert.Equal(t, first, second)
}

func TestEvaluatePlantAlternativesNotDairy(t *testing.T) {
	gate := NewGate()

	// Plant milks contain the word "milk" but are fine for a dairy allergy
	// and a vegan diet.
	verdict := gate.Evaluate(
		Candidate{Original: "milk", Substitute: "coconut milk"},
		Constraints{Allergens: []string{"dairy"}, Diet: "vegan"},
	)

	assert.True(t, verdict.Accepted)
}

func TestContainsIngredientWholeTerms(t *testing.T) {
	assert.True(t, containsIngredient("peanut butter", "peanut"))
	assert.True(t, containsIngredient("smooth peanut butter", "peanut butter"))
	assert.False(t, containsIngredient("butternut squash", "butter"))
	assert.False(t, containsIngredient("peanut", "nut"))
}
