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

// Package tools defines the agent's tool catalog.
//
// Every capability the agent can invoke is a Tool registered by name in the
// Registry at startup. The catalog is closed: tools implement a fixed
// interface, arguments are validated against the declared parameter schema
// before execution, and the registry is immutable once the process is
// serving.
package tools

import (
	"context"

	"github.com/minddish/minddish/pkg/retrieval"
	"github.com/minddish/minddish/pkg/safety"
)

// ToolInfo represents metadata about a tool.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters,omitempty"`
}

// ToolParameter represents a tool parameter definition.
type ToolParameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // string, integer, number, boolean, array
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
}

// ResultKind tags the variant carried by a ToolResult.
type ResultKind string

const (
	// KindRetrievedChunks carries transcript chunks with scores.
	KindRetrievedChunks ResultKind = "retrieved_chunks"

	// KindComputedValue carries a value computed from inputs.
	KindComputedValue ResultKind = "computed_value"

	// KindSafetyVerdict carries a substitution gate rejection.
	KindSafetyVerdict ResultKind = "safety_verdict"

	// KindExternalSearch carries permissioned web search results.
	KindExternalSearch ResultKind = "external_search"
)

// ComputedValue is a tool-computed answer with an optional confidence
// qualifier and structured details.
type ComputedValue struct {
	Label      string         `json:"label"`
	Value      string         `json:"value"`
	Confidence string         `json:"confidence,omitempty"` // high, medium, low
	Details    map[string]any `json:"details,omitempty"`
}

// ExternalSearchResult is a single web search hit.
type ExternalSearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// ToolResult is the tagged union returned by tool execution.
// Exactly the field matching Kind is populated; Verdict may additionally
// accompany a KindComputedValue when a substitution was accepted with
// warnings.
type ToolResult struct {
	ToolName string     `json:"tool_name"`
	Kind     ResultKind `json:"kind"`

	Chunks  []retrieval.ScoredChunk `json:"chunks,omitempty"`
	Value   *ComputedValue          `json:"value,omitempty"`
	Verdict *safety.Verdict         `json:"verdict,omitempty"`
	Search  []ExternalSearchResult  `json:"search,omitempty"`
}

// Tool represents a callable capability exposed to the agent.
type Tool interface {
	// GetInfo returns metadata about the tool, including its parameter
	// schema.
	GetInfo() ToolInfo

	// Execute runs the tool with already-validated arguments.
	Execute(ctx context.Context, args map[string]any) (ToolResult, error)
}

// consentKey marks per-turn user consent for external web search.
type consentKey struct{}

// WithWebSearchConsent marks the context as carrying explicit per-turn
// consent for external web search.
func WithWebSearchConsent(ctx context.Context) context.Context {
	return context.WithValue(ctx, consentKey{}, true)
}

// HasWebSearchConsent reports whether the turn granted web search consent.
func HasWebSearchConsent(ctx context.Context) bool {
	consent, _ := ctx.Value(consentKey{}).(bool)
	return consent
}
