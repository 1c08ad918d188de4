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

// Package observability provides Prometheus metrics for the query agent.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the agent's Prometheus instruments on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	// TurnsTotal counts completed turns, labeled by outcome
	// ("answered", "degraded", "rejected").
	TurnsTotal *prometheus.CounterVec

	// TurnDuration observes end-to-end turn latency in seconds.
	TurnDuration prometheus.Histogram

	// ToolCallsTotal counts tool invocations, labeled by tool name and
	// status ("ok", "error").
	ToolCallsTotal *prometheus.CounterVec

	// RetrievalRetriesTotal counts index retry attempts.
	RetrievalRetriesTotal prometheus.Counter

	// SessionsActive gauges live sessions.
	SessionsActive prometheus.Gauge
}

// NewMetrics creates the instrument set on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		TurnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "minddish_turns_total",
			Help: "Completed conversation turns by outcome.",
		}, []string{"outcome"}),
		TurnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "minddish_turn_duration_seconds",
			Help:    "End-to-end turn latency.",
			Buckets: prometheus.DefBuckets,
		}),
		ToolCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "minddish_tool_calls_total",
			Help: "Tool invocations by tool and status.",
		}, []string{"tool", "status"}),
		RetrievalRetriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "minddish_retrieval_retries_total",
			Help: "Retry attempts against the vector index.",
		}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "minddish_sessions_active",
			Help: "Live sessions in the store.",
		}),
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTurn records one completed turn.
func (m *Metrics) ObserveTurn(outcome string, d time.Duration) {
	m.TurnsTotal.WithLabelValues(outcome).Inc()
	m.TurnDuration.Observe(d.Seconds())
}

// ObserveToolCall records one tool invocation.
func (m *Metrics) ObserveToolCall(tool string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
}
