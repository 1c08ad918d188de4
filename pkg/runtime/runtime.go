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

// Package runtime assembles the query agent from configuration.
package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minddish/minddish/pkg/agent"
	"github.com/minddish/minddish/pkg/catalog"
	"github.com/minddish/minddish/pkg/config"
	"github.com/minddish/minddish/pkg/embedder"
	"github.com/minddish/minddish/pkg/observability"
	"github.com/minddish/minddish/pkg/retrieval"
	"github.com/minddish/minddish/pkg/safety"
	"github.com/minddish/minddish/pkg/session"
	"github.com/minddish/minddish/pkg/tools"
	"github.com/minddish/minddish/pkg/vector"
)

// Runtime holds the assembled components.
type Runtime struct {
	Config     *config.Config
	Catalog    *catalog.Catalog
	Provider   vector.Provider
	Embedder   embedder.Embedder
	Adapter    *retrieval.Adapter
	Registry   *tools.Registry
	Sessions   *session.Store
	Metrics    *observability.Metrics
	Controller *agent.Controller
}

// New builds the runtime. The registry is closed after this returns.
func New(cfg *config.Config) (*Runtime, error) {
	var cat *catalog.Catalog
	if cfg.CatalogPath != "" {
		var err error
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		slog.Info("Loaded video catalog", "videos", cat.Len(), "cuisines", len(cat.Cuisines()))
	}

	emb, err := embedder.New(&cfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	provider, err := vector.NewProvider(&cfg.Vector)
	if err != nil {
		emb.Close()
		return nil, fmt.Errorf("failed to create vector provider: %w", err)
	}
	slog.Info("Vector index configured", "provider", provider.Name(), "collection", cfg.Retrieval.Collection)

	adapter := retrieval.New(cfg.Retrieval, emb, provider, cat)
	metrics := observability.NewMetrics()
	adapter.SetRetryObserver(metrics.RetrievalRetriesTotal.Inc)
	sessions := session.NewStore(cfg.Session)

	registry, err := buildRegistry(cfg, adapter, cat)
	if err != nil {
		provider.Close()
		emb.Close()
		return nil, err
	}

	classifier := agent.NewRuleClassifier(cat)
	controller := agent.NewController(sessions, registry, classifier, metrics)

	return &Runtime{
		Config:     cfg,
		Catalog:    cat,
		Provider:   provider,
		Embedder:   emb,
		Adapter:    adapter,
		Registry:   registry,
		Sessions:   sessions,
		Metrics:    metrics,
		Controller: controller,
	}, nil
}

func buildRegistry(cfg *config.Config, adapter *retrieval.Adapter, cat *catalog.Catalog) (*tools.Registry, error) {
	gate := safety.NewGate()
	registry := tools.NewRegistry()

	catalogTools := []tools.Tool{
		tools.NewVideoQATool(adapter),
		tools.NewIngredientExtractionTool(),
		tools.NewCookingTimeEstimationTool(),
		tools.NewRecipeComparisonTool(adapter, cat),
		tools.NewSubstitutionAdvisorTool(gate),
		tools.NewWebSearchTool(cfg.Tools.WebSearch),
	}

	for _, tool := range catalogTools {
		name := tool.GetInfo().Name
		if !cfg.Tools.IsEnabled(name) {
			slog.Info("Tool disabled by configuration", "tool", name)
			continue
		}
		if err := registry.Register(tool); err != nil {
			return nil, fmt.Errorf("failed to register tool: %w", err)
		}
	}

	return registry, nil
}

// Start launches background workers (the session janitor).
func (r *Runtime) Start(ctx context.Context) {
	r.Sessions.StartJanitor(ctx)
}

// Close releases backend connections.
func (r *Runtime) Close() error {
	var firstErr error
	if err := r.Provider.Close(); err != nil {
		firstErr = err
	}
	if err := r.Embedder.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
