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

package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryProvider is a brute-force in-memory provider for tests and
// development. Insertion order is preserved so equal-score results sort
// stably.
type MemoryProvider struct {
	mu          sync.RWMutex
	collections map[string][]memoryDoc
}

type memoryDoc struct {
	id       string
	vector   []float32
	metadata map[string]any
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		collections: make(map[string][]memoryDoc),
	}
}

// Name returns the provider name.
func (p *MemoryProvider) Name() string {
	return "memory"
}

// Upsert adds or replaces a document.
func (p *MemoryProvider) Upsert(ctx context.Context, collection string, id string, vector []float32, metadata map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	docs := p.collections[collection]
	for i, doc := range docs {
		if doc.id == id {
			docs[i] = memoryDoc{id: id, vector: vector, metadata: metadata}
			return nil
		}
	}
	p.collections[collection] = append(docs, memoryDoc{id: id, vector: vector, metadata: metadata})
	return nil
}

// Search finds the topK most similar vectors by cosine similarity.
func (p *MemoryProvider) Search(ctx context.Context, collection string, vector []float32, topK int) ([]Result, error) {
	return p.SearchWithFilter(ctx, collection, vector, topK, nil)
}

// SearchWithFilter combines similarity with exact-match metadata filtering.
func (p *MemoryProvider) SearchWithFilter(ctx context.Context, collection string, vector []float32, topK int, filter map[string]any) ([]Result, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	docs, ok := p.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: collection %q not found", ErrIndexUnavailable, collection)
	}

	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		if !matchesFilter(doc.metadata, filter) {
			continue
		}
		content, _ := doc.metadata["text"].(string)
		results = append(results, Result{
			ID:       doc.id,
			Content:  content,
			Score:    cosineSimilarity(vector, doc.vector),
			Metadata: doc.metadata,
			Vector:   doc.vector,
		})
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Close is a no-op for the in-memory provider.
func (p *MemoryProvider) Close() error {
	return nil
}

func matchesFilter(metadata, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := metadata[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Ensure MemoryProvider implements Provider.
var _ Provider = (*MemoryProvider)(nil)
