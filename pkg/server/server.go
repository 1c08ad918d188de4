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

// Package server exposes the query agent over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minddish/minddish/pkg/agent"
	"github.com/minddish/minddish/pkg/runtime"
)

// Server serves the agent's HTTP API.
type Server struct {
	runtime *runtime.Runtime
	http    *http.Server
}

// New creates the server on the configured address.
func New(rt *runtime.Runtime) *Server {
	s := &Server{runtime: rt}

	r := chi.NewRouter()
	r.Use(loggingMiddleware)

	r.Post("/v1/ask", s.handleAsk)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", rt.Metrics.Handler().ServeHTTP)

	s.http = &http.Server{
		Addr:              rt.Config.Server.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	slog.Info("HTTP server listening", "address", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// askRequest is the /v1/ask request body.
type askRequest struct {
	SessionID        string `json:"session_id,omitempty"`
	Text             string `json:"text"`
	WebSearchConsent bool   `json:"web_search_consent,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	response, err := s.runtime.Controller.Ask(r.Context(), req.SessionID, req.Text, req.WebSearchConsent)
	if err != nil {
		if errors.Is(err, agent.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "text must not be empty")
			return
		}
		slog.Error("Turn processing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.runtime.Sessions.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
