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

// Package embedder provides text embedding services for semantic search.
package embedder

import (
	"context"
	"fmt"
)

// Embedder produces vector embeddings from text.
//
// Embeddings are used by the retrieval adapter for semantic similarity
// search. The vectors must come from the same model family used by the
// ingestion pipeline that populated the index.
type Embedder interface {
	// Embed converts text to a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// Model returns the model name being used.
	Model() string

	// Close releases any resources held by the embedder.
	Close() error
}

// Type identifies an embedder implementation.
type Type string

const (
	// TypeOllama embeds via a local or remote Ollama server.
	TypeOllama Type = "ollama"

	// TypeHash is a deterministic local feature-hash embedder.
	// No external service required; used for tests and offline runs.
	TypeHash Type = "hash"
)

// Config is the configuration for creating embedders.
type Config struct {
	// Type identifies which embedder to create.
	Type Type `yaml:"type"`

	// Ollama configuration (used when Type == "ollama").
	Ollama *OllamaConfig `yaml:"ollama,omitempty"`

	// Dimension for the hash embedder (default 256).
	Dimension int `yaml:"dimension,omitempty"`
}

// SetDefaults applies default values.
func (c *Config) SetDefaults() {
	if c.Type == "" {
		c.Type = TypeHash
	}
	if c.Type == TypeHash && c.Dimension <= 0 {
		c.Dimension = 256
	}
	if c.Type == TypeOllama && c.Ollama == nil {
		c.Ollama = &OllamaConfig{}
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Type {
	case TypeHash:
		return nil
	case TypeOllama:
		if c.Ollama == nil {
			return fmt.Errorf("ollama configuration is required")
		}
		return nil
	case "":
		return fmt.Errorf("embedder type is required")
	default:
		return fmt.Errorf("unknown embedder type: %q", c.Type)
	}
}

// New creates an embedder from configuration.
func New(cfg *Config) (Embedder, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.SetDefaults()

	switch cfg.Type {
	case TypeOllama:
		return NewOllamaEmbedder(*cfg.Ollama), nil
	case TypeHash:
		return NewHashEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedder type: %q", cfg.Type)
	}
}
