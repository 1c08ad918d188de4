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

	"github.com/minddish/minddish/pkg/safety"
)

func TestSubstitutionRejectsAllCandidatesForPeanutAllergy(t *testing.T) {
	tool := NewSubstitutionAdvisorTool(safety.NewGate())

	// Every substitute for peanuts is another nut butter, and a peanut
	// allergy rejects those for cross-contact. The answer must be the
	// rejection itself, reason included, with no substitute offered.
	result, err := tool.Execute(context.Background(), map[string]any{
		"ingredient": "peanuts",
		"allergens":  []string{"peanut"},
		"recipe":     "satay sauce",
	})

	require.NoError(t, err, "a safety rejection is a valid result, not an error")
	assert.Equal(t, KindSafetyVerdict, result.Kind)
	require.NotNil(t, result.Verdict)
	assert.False(t, result.Verdict.Accepted)
	assert.Contains(t, result.Verdict.Reason, "peanut")
	assert.Nil(t, result.Value, "no substitute may accompany a rejection")
}

func TestSubstitutionAcceptsFirstSafeCandidate(t *testing.T) {
	tool := NewSubstitutionAdvisorTool(safety.NewGate())

	result, err := tool.Execute(context.Background(), map[string]any{
		"ingredient": "butter",
		"diet":       "vegan",
	})

	require.NoError(t, err)
	require.Equal(t, KindComputedValue, result.Kind)
	require.NotNil(t, result.Value)
	// Ghee fails vegan; coconut oil is the first acceptable candidate.
	assert.Equal(t, "coconut oil", result.Value.Value)
	require.NotNil(t, result.Verdict)
	assert.True(t, result.Verdict.Accepted)
}

func TestSubstitutionSurfacesWarningsOnAccept(t *testing.T) {
	tool := NewSubstitutionAdvisorTool(safety.NewGate())

	result, err := tool.Execute(context.Background(), map[string]any{
		"ingredient": "chicken",
		"diet":       "vegetarian",
	})

	require.NoError(t, err)
	require.Equal(t, KindComputedValue, result.Kind)
	require.NotNil(t, result.Verdict)
	assert.True(t, result.Verdict.Accepted)
}

func TestSubstitutionUnknownIngredient(t *testing.T) {
	tool := NewSubstitutionAdvisorTool(safety.NewGate())

	result, err := tool.Execute(context.Background(), map[string]any{
		"ingredient": "dragonfruit zest",
	})

	require.NoError(t, err)
	require.Equal(t, KindComputedValue, result.Kind)
	assert.Equal(t, "low", result.Value.Confidence)
	assert.Contains(t, result.Value.Value, "no known substitute")
}

func TestSubstitutionHonorsMultipleConstraints(t *testing.T) {
	tool := NewSubstitutionAdvisorTool(safety.NewGate())

	// Dairy allergy plus vegan diet: coconut milk is the surviving
	// candidate for milk.
	result, err := tool.Execute(context.Background(), map[string]any{
		"ingredient": "milk",
		"allergens":  []string{"dairy"},
		"diet":       "vegan",
	})

	require.NoError(t, err)
	require.Equal(t, KindComputedValue, result.Kind)
	assert.Equal(t, "coconut milk", result.Value.Value)
}
