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

// Package retrieval adapts the vector index into transcript chunk search.
//
// The adapter embeds the query text, searches the configured collection and
// resolves chunk payloads against the video catalog. It is strictly
// read-only with respect to the index.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/minddish/minddish/pkg/catalog"
	"github.com/minddish/minddish/pkg/embedder"
	"github.com/minddish/minddish/pkg/vector"
)

// Chunk is an immutable unit of transcript text with its index metadata.
type Chunk struct {
	ID         string `json:"id"`
	VideoID    string `json:"video_id"`
	VideoTitle string `json:"video_title,omitempty"`
	Text       string `json:"text"`
	Timestamp  int    `json:"timestamp"`
	Cuisine    string `json:"cuisine,omitempty"`
}

// ScoredChunk pairs a chunk with its similarity score.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}

// Config configures the retrieval adapter.
type Config struct {
	// Collection is the index collection holding transcript chunks.
	Collection string `yaml:"collection"`

	// TopK is the default number of chunks to retrieve (default 4).
	TopK int `yaml:"top_k"`

	// MaxAttempts bounds retries when the index is unreachable (default 3).
	MaxAttempts int `yaml:"max_attempts"`

	// RetryBackoff is the initial backoff between attempts (default 200ms).
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// SetDefaults applies default values.
func (c *Config) SetDefaults() {
	if c.Collection == "" {
		c.Collection = "transcripts"
	}
	if c.TopK <= 0 {
		c.TopK = 4
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 200 * time.Millisecond
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TopK > 20 {
		return fmt.Errorf("top_k must be between 1 and 20, got %d", c.TopK)
	}
	return nil
}

// Adapter performs semantic search over transcript chunks.
type Adapter struct {
	config   Config
	embedder embedder.Embedder
	provider vector.Provider
	catalog  *catalog.Catalog
	onRetry  func()
}

// SetRetryObserver installs a callback invoked once per retry attempt.
// Must be called before the adapter is shared across goroutines.
func (a *Adapter) SetRetryObserver(fn func()) {
	a.onRetry = fn
}

// New creates a retrieval adapter.
func New(cfg Config, emb embedder.Embedder, provider vector.Provider, cat *catalog.Catalog) *Adapter {
	cfg.SetDefaults()
	return &Adapter{
		config:   cfg,
		embedder: emb,
		provider: provider,
		catalog:  cat,
	}
}

// TopK returns the configured default result count.
func (a *Adapter) TopK() int {
	return a.config.TopK
}

// Search embeds the query and returns up to k chunks ordered by descending
// similarity, ties stable, deduplicated by chunk id.
//
// Transient index failures are retried with backoff up to the configured
// attempt bound; the final failure wraps vector.ErrIndexUnavailable so
// callers can degrade instead of aborting the turn.
func (a *Adapter) Search(ctx context.Context, query string, k int, filters map[string]any) ([]ScoredChunk, error) {
	if k <= 0 {
		k = a.config.TopK
	}

	queryVector, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := a.searchWithRetry(ctx, queryVector, k, filters)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(results))
	chunks := make([]ScoredChunk, 0, len(results))
	for _, r := range results {
		if r.ID == "" || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		chunks = append(chunks, ScoredChunk{
			Chunk: a.toChunk(r),
			Score: r.Score,
		})
	}

	return chunks, nil
}

func (a *Adapter) searchWithRetry(ctx context.Context, queryVector []float32, k int, filters map[string]any) ([]vector.Result, error) {
	backoff := a.config.RetryBackoff
	var lastErr error

	for attempt := 1; attempt <= a.config.MaxAttempts; attempt++ {
		results, err := a.provider.SearchWithFilter(ctx, a.config.Collection, queryVector, k, filters)
		if err == nil {
			return results, nil
		}
		lastErr = err

		if !errors.Is(err, vector.ErrIndexUnavailable) {
			return nil, err
		}
		if attempt == a.config.MaxAttempts {
			break
		}

		slog.Warn("Index unavailable, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err)
		if a.onRetry != nil {
			a.onRetry()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("index search failed after %d attempts: %w", a.config.MaxAttempts, lastErr)
}

// toChunk maps an index payload to a Chunk, resolving the video title from
// the catalog when available.
func (a *Adapter) toChunk(r vector.Result) Chunk {
	chunk := Chunk{
		ID:   r.ID,
		Text: r.Content,
	}
	if chunk.Text == "" {
		if text, ok := r.Metadata["text"].(string); ok {
			chunk.Text = text
		}
	}
	if videoID, ok := r.Metadata["video_id"].(string); ok {
		chunk.VideoID = videoID
	}
	if cuisine, ok := r.Metadata["cuisine"].(string); ok {
		chunk.Cuisine = cuisine
	}
	chunk.Timestamp = toSeconds(r.Metadata["timestamp"])

	if a.catalog != nil {
		if meta, ok := a.catalog.Get(chunk.VideoID); ok {
			chunk.VideoTitle = meta.Title
			if chunk.Cuisine == "" {
				chunk.Cuisine = meta.Cuisine
			}
		}
	}

	return chunk
}

// toSeconds normalizes the timestamp payload value; providers round-trip it
// as int64, float64 or string depending on the backend.
func toSeconds(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case float32:
		return int(t)
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
	}
	return 0
}
