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

// Package vector provides vector database backends for the transcript index.
//
// The query agent only ever reads from the index; Upsert exists for tests
// and for the external ingestion pipeline's tooling.
package vector

import (
	"context"
	"errors"
)

// ErrIndexUnavailable indicates the backing store cannot be reached.
// Callers treat this as a transient retrieval failure, not a fatal error.
var ErrIndexUnavailable = errors.New("vector index unavailable")

// Result is a single similarity search hit.
type Result struct {
	// ID is the chunk identifier.
	ID string

	// Content is the chunk text, when stored in the payload.
	Content string

	// Score is the similarity score (cosine, higher is closer).
	Score float32

	// Metadata carries the chunk payload (video_id, timestamp, cuisine...).
	Metadata map[string]any

	// Vector is the stored embedding, when the backend returns it.
	Vector []float32
}

// Provider is a vector database backend.
//
// Search results are ordered by descending score with ties broken by
// insertion order (stable).
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Upsert adds or updates a document with its vector.
	Upsert(ctx context.Context, collection string, id string, vector []float32, metadata map[string]any) error

	// Search finds the topK most similar vectors.
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]Result, error)

	// SearchWithFilter combines vector similarity with metadata filtering.
	SearchWithFilter(ctx context.Context, collection string, vector []float32, topK int, filter map[string]any) ([]Result, error)

	// Close releases backend resources.
	Close() error
}
