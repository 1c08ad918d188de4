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

package embedder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedderDeterministic(t *testing.T) {
	emb := NewHashEmbedder(64)
	ctx := context.Background()

	first, err := emb.Embed(ctx, "simmer the jollof rice on low heat")
	require.NoError(t, err)
	second, err := emb.Embed(ctx, "simmer the jollof rice on low heat")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHashEmbedderDimension(t *testing.T) {
	emb := NewHashEmbedder(128)
	assert.Equal(t, 128, emb.Dimension())

	vec, err := emb.Embed(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, vec, 128)

	// Non-positive dimensions fall back to the default.
	assert.Equal(t, 256, NewHashEmbedder(0).Dimension())
}

func TestHashEmbedderUnitNorm(t *testing.T) {
	emb := NewHashEmbedder(64)

	vec, err := emb.Embed(context.Background(), "tomato onion pepper rice stock")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestHashEmbedderEmptyText(t *testing.T) {
	emb := NewHashEmbedder(64)

	vec, err := emb.Embed(context.Background(), "")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestHashEmbedderSharedVocabularyCloser(t *testing.T) {
	emb := NewHashEmbedder(256)
	ctx := context.Background()

	query, err := emb.Embed(ctx, "how long does the rice simmer")
	require.NoError(t, err)
	related, err := emb.Embed(ctx, "let the rice simmer for twenty minutes")
	require.NoError(t, err)
	unrelated, err := emb.Embed(ctx, "whisk eggs with sugar until fluffy")
	require.NoError(t, err)

	assert.Greater(t, dot(query, related), dot(query, unrelated))
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
