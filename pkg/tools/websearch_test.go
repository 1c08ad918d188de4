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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSearchDeniedWithoutConsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request may leave the process without consent")
	}))
	defer server.Close()

	tool := NewWebSearchTool(WebSearchConfig{BaseURL: server.URL})

	_, err := tool.Execute(context.Background(), map[string]any{"query": "jollof rice history"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearchDenied)
}

func TestWebSearchWithConsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jollof rice history", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Heading": "Jollof rice",
			"AbstractText": "Jollof rice is a West African rice dish.",
			"AbstractURL": "https://example.org/jollof",
			"RelatedTopics": [
				{"Text": "Party jollof", "FirstURL": "https://example.org/party"}
			]
		}`))
	}))
	defer server.Close()

	tool := NewWebSearchTool(WebSearchConfig{BaseURL: server.URL})
	ctx := WithWebSearchConsent(context.Background())

	result, err := tool.Execute(ctx, map[string]any{"query": "jollof rice history"})
	require.NoError(t, err)
	assert.Equal(t, KindExternalSearch, result.Kind)
	require.Len(t, result.Search, 2)
	assert.Equal(t, "Jollof rice", result.Search[0].Title)
	assert.Equal(t, "https://example.org/jollof", result.Search[0].URL)
	assert.Equal(t, "Party jollof", result.Search[1].Snippet)
}

func TestWebSearchCapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"RelatedTopics": [
				{"Text": "one", "FirstURL": "https://example.org/1"},
				{"Text": "two", "FirstURL": "https://example.org/2"},
				{"Text": "three", "FirstURL": "https://example.org/3"}
			]
		}`))
	}))
	defer server.Close()

	tool := NewWebSearchTool(WebSearchConfig{BaseURL: server.URL, MaxResults: 2})
	ctx := WithWebSearchConsent(context.Background())

	result, err := tool.Execute(ctx, map[string]any{"query": "anything"})
	require.NoError(t, err)
	assert.Len(t, result.Search, 2)
}
