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

	"github.com/minddish/minddish/pkg/catalog"
	"github.com/minddish/minddish/pkg/embedder"
	"github.com/minddish/minddish/pkg/retrieval"
	"github.com/minddish/minddish/pkg/vector"
)

func compareFixture(t *testing.T) (*retrieval.Adapter, *catalog.Catalog) {
	t.Helper()
	ctx := context.Background()

	emb := embedder.NewHashEmbedder(64)
	provider := vector.NewMemoryProvider()

	seed := []struct {
		id, videoID, cuisine, text string
	}{
		{"jollof:1", "Jollof101", "nigerian", "fry the tomato and onion, add two cups of rice and simmer"},
		{"padthai:1", "PadThai200", "thai", "stir fry the rice noodles with fish sauce and garlic"},
	}
	for _, s := range seed {
		vec, err := emb.Embed(ctx, s.text)
		require.NoError(t, err)
		require.NoError(t, provider.Upsert(ctx, "transcripts", s.id, vec, map[string]any{
			"video_id": s.videoID,
			"text":     s.text,
			"cuisine":  s.cuisine,
		}))
	}

	cat := catalog.New([]catalog.VideoMetadata{
		{ID: "Jollof101", Title: "Jollof Rice", Cuisine: "nigerian"},
		{ID: "PadThai200", Title: "Pad Thai", Cuisine: "thai"},
	})

	adapter := retrieval.New(retrieval.Config{Collection: "transcripts"}, emb, provider, cat)
	return adapter, cat
}

func TestCompareRequiresTwoSubjects(t *testing.T) {
	adapter, cat := compareFixture(t)
	tool := NewRecipeComparisonTool(adapter, cat)

	_, err := tool.Execute(context.Background(), map[string]any{
		"subjects": []string{"nigerian"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToolInput)
}

func TestCompareIdenticalSubjectsEmptyDiff(t *testing.T) {
	// Comparing a subject to itself must not hit the index at all: the
	// result is an empty diff by definition.
	tool := NewRecipeComparisonTool(nil, nil)

	result, err := tool.Execute(context.Background(), map[string]any{
		"subjects": []string{"nigerian", "nigerian"},
	})

	require.NoError(t, err)
	require.Equal(t, KindComputedValue, result.Kind)
	diff, ok := result.Value.Details["diff"].(ComparisonDiff)
	require.True(t, ok)
	assert.True(t, diff.Empty())
	assert.Equal(t, "no differences found", result.Value.Value)
}

func TestCompareCuisines(t *testing.T) {
	adapter, cat := compareFixture(t)
	tool := NewRecipeComparisonTool(adapter, cat)

	result, err := tool.Execute(context.Background(), map[string]any{
		"subjects": []string{"nigerian", "thai"},
	})

	require.NoError(t, err)
	require.Equal(t, KindComputedValue, result.Kind)

	diff, ok := result.Value.Details["diff"].(ComparisonDiff)
	require.True(t, ok)
	assert.False(t, diff.Empty())
	assert.Contains(t, diff.DistinctIngredient["thai"], "fish sauce")
	assert.Contains(t, diff.DistinctTechnique["thai"], "stir fry")
}

func TestDiffHelpers(t *testing.T) {
	sets := map[string]map[string]bool{
		"a": {"rice": true, "salt": true},
		"b": {"rice": true, "fish": true},
	}
	subjects := []string{"a", "b"}

	assert.Equal(t, []string{"rice"}, shared(subjects, sets))

	d := distinct(subjects, sets)
	assert.Equal(t, []string{"salt"}, d["a"])
	assert.Equal(t, []string{"fish"}, d["b"])
}
