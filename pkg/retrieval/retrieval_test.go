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

package retrieval

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minddish/minddish/pkg/catalog"
	"github.com/minddish/minddish/pkg/embedder"
	"github.com/minddish/minddish/pkg/vector"
)

func testConfig() Config {
	return Config{
		Collection:   "transcripts",
		TopK:         4,
		MaxAttempts:  3,
		RetryBackoff: time.Millisecond,
	}
}

func seedIndex(t *testing.T, emb embedder.Embedder, p vector.Provider) {
	t.Helper()
	ctx := context.Background()

	chunks := []struct {
		id, videoID, text, cuisine string
		timestamp                  int
	}{
		{"Jollof101:142", "Jollof101", "let the jollof rice simmer on low heat for twenty minutes", "nigerian", 142},
		{"Jollof101:300", "Jollof101", "garnish with fried plantain and serve", "nigerian", 300},
		{"PadThai200:55", "PadThai200", "soak the rice noodles in warm water", "thai", 55},
	}

	for _, c := range chunks {
		vec, err := emb.Embed(ctx, c.text)
		require.NoError(t, err)
		require.NoError(t, p.Upsert(ctx, "transcripts", c.id, vec, map[string]any{
			"video_id":  c.videoID,
			"text":      c.text,
			"timestamp": c.timestamp,
			"cuisine":   c.cuisine,
		}))
	}
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.VideoMetadata{
		{ID: "Jollof101", Title: "Nigerian Jollof Rice Masterclass", Cuisine: "nigerian"},
		{ID: "PadThai200", Title: "Authentic Pad Thai", Cuisine: "thai"},
	})
}

func TestSearchReturnsCitableChunks(t *testing.T) {
	emb := embedder.NewHashEmbedder(64)
	provider := vector.NewMemoryProvider()
	seedIndex(t, emb, provider)

	adapter := New(testConfig(), emb, provider, testCatalog())

	chunks, err := adapter.Search(context.Background(), "how long does the jollof rice simmer", 4, nil)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	top := chunks[0]
	assert.Equal(t, "Jollof101:142", top.Chunk.ID)
	assert.Equal(t, "Jollof101", top.Chunk.VideoID)
	assert.Equal(t, "Nigerian Jollof Rice Masterclass", top.Chunk.VideoTitle)
	assert.Equal(t, 142, top.Chunk.Timestamp)

	// Descending score order throughout.
	for i := 1; i < len(chunks); i++ {
		assert.GreaterOrEqual(t, chunks[i-1].Score, chunks[i].Score)
	}
}

func TestSearchAppliesFilters(t *testing.T) {
	emb := embedder.NewHashEmbedder(64)
	provider := vector.NewMemoryProvider()
	seedIndex(t, emb, provider)

	adapter := New(testConfig(), emb, provider, testCatalog())

	chunks, err := adapter.Search(context.Background(), "rice", 10, map[string]any{"cuisine": "thai"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "PadThai200:55", chunks[0].Chunk.ID)
}

// flakyProvider fails the first N searches with ErrIndexUnavailable.
type flakyProvider struct {
	*vector.MemoryProvider
	failures int
	calls    int
}

func (p *flakyProvider) SearchWithFilter(ctx context.Context, collection string, vec []float32, topK int, filter map[string]any) ([]vector.Result, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, fmt.Errorf("connection refused: %w", vector.ErrIndexUnavailable)
	}
	return p.MemoryProvider.SearchWithFilter(ctx, collection, vec, topK, filter)
}

func TestSearchRetriesTransientFailures(t *testing.T) {
	emb := embedder.NewHashEmbedder(64)
	flaky := &flakyProvider{MemoryProvider: vector.NewMemoryProvider(), failures: 2}
	seedIndex(t, emb, flaky.MemoryProvider)

	adapter := New(testConfig(), emb, flaky, testCatalog())

	chunks, err := adapter.Search(context.Background(), "jollof rice", 4, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, chunks)
	assert.Equal(t, 3, flaky.calls)
}

func TestSearchExhaustsRetries(t *testing.T) {
	emb := embedder.NewHashEmbedder(64)
	flaky := &flakyProvider{MemoryProvider: vector.NewMemoryProvider(), failures: 10}
	seedIndex(t, emb, flaky.MemoryProvider)

	adapter := New(testConfig(), emb, flaky, nil)

	_, err := adapter.Search(context.Background(), "jollof rice", 4, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, vector.ErrIndexUnavailable)
	assert.Equal(t, 3, flaky.calls, "retries must be bounded")
}

// invalidInputProvider fails with a non-transient error.
type invalidInputProvider struct {
	*vector.MemoryProvider
	calls int
}

func (p *invalidInputProvider) SearchWithFilter(ctx context.Context, collection string, vec []float32, topK int, filter map[string]any) ([]vector.Result, error) {
	p.calls++
	return nil, fmt.Errorf("malformed filter")
}

func TestSearchDoesNotRetryNonTransientErrors(t *testing.T) {
	emb := embedder.NewHashEmbedder(64)
	p := &invalidInputProvider{MemoryProvider: vector.NewMemoryProvider()}

	adapter := New(testConfig(), emb, p, nil)

	_, err := adapter.Search(context.Background(), "query", 4, nil)
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)
}

func TestSearchDeduplicatesByChunkID(t *testing.T) {
	emb := embedder.NewHashEmbedder(64)

	dup := &duplicatingProvider{}
	adapter := New(testConfig(), emb, dup, nil)

	chunks, err := adapter.Search(context.Background(), "anything", 10, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "dup", chunks[0].Chunk.ID)
}

type duplicatingProvider struct{}

func (p *duplicatingProvider) Name() string { return "dup" }
func (p *duplicatingProvider) Upsert(ctx context.Context, collection, id string, vec []float32, metadata map[string]any) error {
	return nil
}
func (p *duplicatingProvider) Search(ctx context.Context, collection string, vec []float32, topK int) ([]vector.Result, error) {
	return p.SearchWithFilter(ctx, collection, vec, topK, nil)
}
func (p *duplicatingProvider) SearchWithFilter(ctx context.Context, collection string, vec []float32, topK int, filter map[string]any) ([]vector.Result, error) {
	return []vector.Result{
		{ID: "dup", Score: 0.9, Metadata: map[string]any{"text": "hello"}},
		{ID: "dup", Score: 0.8, Metadata: map[string]any{"text": "hello"}},
	}, nil
}
func (p *duplicatingProvider) Close() error { return nil }

func TestConfigValidate(t *testing.T) {
	cfg := Config{TopK: 25}
	cfg.SetDefaults()
	assert.Error(t, cfg.Validate())

	cfg = Config{}
	cfg.SetDefaults()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.TopK)
}

func TestToSeconds(t *testing.T) {
	assert.Equal(t, 142, toSeconds(142))
	assert.Equal(t, 142, toSeconds(int64(142)))
	assert.Equal(t, 142, toSeconds(float64(142)))
	assert.Equal(t, 142, toSeconds("142"))
	assert.Equal(t, 0, toSeconds(nil))
	assert.Equal(t, 0, toSeconds("abc"))
}
