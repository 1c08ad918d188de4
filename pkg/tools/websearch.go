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
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minddish/minddish/pkg/httpclient"
)

// WebSearchConfig configures the permissioned web search tool.
type WebSearchConfig struct {
	// BaseURL of the DuckDuckGo Instant Answer API.
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout bounds the external call (default 10s). Web search is the
	// only tool with unbounded upstream latency, so the timeout is
	// mandatory.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// MaxResults caps returned hits (default 5).
	MaxResults int `yaml:"max_results,omitempty"`
}

// WebSearchTool performs external search, only with explicit per-turn user
// consent. Absent consent it fails with ErrSearchDenied.
type WebSearchTool struct {
	config WebSearchConfig
	client *httpclient.Client
}

// NewWebSearchTool creates the web_search tool.
func NewWebSearchTool(cfg WebSearchConfig) *WebSearchTool {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.duckduckgo.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}

	return &WebSearchTool{
		config: cfg,
		client: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			httpclient.WithMaxRetries(1),
		),
	}
}

// GetInfo returns the tool metadata.
func (t *WebSearchTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        "web_search",
		Description: "Search the web for information not covered by the video corpus. Requires explicit user consent.",
		Parameters: []ToolParameter{
			{Name: "query", Type: "string", Description: "The search query", Required: true},
		},
	}
}

type duckDuckGoResponse struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Execute performs the external search after the consent check.
func (t *WebSearchTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	if !HasWebSearchConsent(ctx) {
		return ToolResult{}, ErrSearchDenied
	}

	query := StringArg(args, "query")

	searchCtx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		t.config.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(searchCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ToolResult{}, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return ToolResult{}, fmt.Errorf("web search failed: %w", err)
	}
	defer resp.Body.Close()

	var ddg duckDuckGoResponse
	if err := json.NewDecoder(resp.Body).Decode(&ddg); err != nil {
		return ToolResult{}, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]ExternalSearchResult, 0, t.config.MaxResults)
	if ddg.AbstractText != "" {
		results = append(results, ExternalSearchResult{
			Title:   ddg.Heading,
			URL:     ddg.AbstractURL,
			Snippet: ddg.AbstractText,
		})
	}
	for _, topic := range ddg.RelatedTopics {
		if len(results) >= t.config.MaxResults {
			break
		}
		if topic.Text == "" {
			continue
		}
		results = append(results, ExternalSearchResult{
			Title:   topic.Text,
			URL:     topic.FirstURL,
			Snippet: topic.Text,
		})
	}

	return ToolResult{
		ToolName: "web_search",
		Kind:     KindExternalSearch,
		Search:   results,
	}, nil
}

// Ensure WebSearchTool implements Tool.
var _ Tool = (*WebSearchTool)(nil)
