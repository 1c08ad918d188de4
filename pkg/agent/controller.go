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

// Package agent implements the query agent controller.
//
// The controller owns the per-turn loop: interpret the utterance, select
// tools through the IntentClassifier, execute them through the registry with
// output chaining, and synthesize a cited answer. It is the single error
// conversion boundary: every tool failure becomes a degraded response, so a
// turn always produces an answer for the user.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minddish/minddish/pkg/observability"
	"github.com/minddish/minddish/pkg/retrieval"
	"github.com/minddish/minddish/pkg/session"
	"github.com/minddish/minddish/pkg/tools"
	"github.com/minddish/minddish/pkg/vector"
)

// ErrEmptyQuery is returned when the user utterance is blank.
var ErrEmptyQuery = errors.New("query text is empty")

// Citation points an answer at its transcript evidence.
type Citation struct {
	ChunkID    string `json:"chunk_id"`
	VideoID    string `json:"video_id"`
	VideoTitle string `json:"video_title,omitempty"`
	Timestamp  int    `json:"timestamp_seconds"`
}

// TraceEntry records one tool invocation within a turn.
type TraceEntry struct {
	Tool  string           `json:"tool"`
	Kind  tools.ResultKind `json:"kind,omitempty"`
	Error string           `json:"error,omitempty"`
}

// AnswerResponse is the controller's per-turn output.
type AnswerResponse struct {
	// SessionID identifies the session the turn belongs to; callers passing
	// an empty session id receive the generated one here.
	SessionID string `json:"session_id"`

	// Text is the synthesized answer.
	Text string `json:"text"`

	// Citations back retrieval-derived answers. Computed answers carry none
	// and are labeled by tool name instead.
	Citations []Citation `json:"citations,omitempty"`

	// ToolTrace lists the tools invoked this turn, in execution order.
	ToolTrace []TraceEntry `json:"tool_trace,omitempty"`

	// Degraded marks answers produced after a tool failure.
	Degraded bool `json:"degraded,omitempty"`
}

// turn outcome labels for metrics.
const (
	outcomeAnswered = "answered"
	outcomeDegraded = "degraded"
	outcomeRejected = "rejected"
)

// Controller coordinates a turn end to end.
type Controller struct {
	store      *session.Store
	registry   *tools.Registry
	classifier IntentClassifier
	metrics    *observability.Metrics
}

// NewController creates a controller. Metrics may be nil.
func NewController(store *session.Store, registry *tools.Registry, classifier IntentClassifier, metrics *observability.Metrics) *Controller {
	return &Controller{
		store:      store,
		registry:   registry,
		classifier: classifier,
		metrics:    metrics,
	}
}

// Ask processes one user turn. Turns within a session are serialized on the
// session lock; distinct sessions proceed concurrently. The returned
// response is never nil when the error is nil.
func (c *Controller) Ask(ctx context.Context, sessionID, text string, webSearchConsent bool) (*AnswerResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	sess := c.store.GetOrCreate(sessionID)
	sess.Lock()
	defer sess.Unlock()

	if webSearchConsent {
		ctx = tools.WithWebSearchConsent(ctx)
	}

	history := sess.Turns()
	sess.Append(session.Turn{Role: session.RoleUser, Text: text})

	response := c.runTurn(ctx, sess.ID(), text, history)

	assistantTurn := session.Turn{
		Role: session.RoleAssistant,
		Text: response.Text,
	}
	for _, cite := range response.Citations {
		assistantTurn.CitedChunks = append(assistantTurn.CitedChunks, cite.ChunkID)
	}
	if len(response.Citations) == 0 && len(response.ToolTrace) > 0 {
		assistantTurn.ToolName = response.ToolTrace[len(response.ToolTrace)-1].Tool
	}
	sess.Append(assistantTurn)

	c.observeTurn(response, time.Since(start))
	return response, nil
}

func (c *Controller) runTurn(ctx context.Context, sessionID, text string, history []session.Turn) *AnswerResponse {
	response := &AnswerResponse{SessionID: sessionID}

	slog.Debug("Turn state", "state", "interpreting", "session_id", sessionID)
	plan, err := c.classifier.Classify(text, history)
	if err != nil {
		return c.degrade(response, "Something went wrong while interpreting that request. Please try again.")
	}

	slog.Debug("Turn state", "state", "tool_selection", "session_id", sessionID, "steps", len(plan.Steps))

	var (
		results    []tools.ToolResult
		lastChunks []retrieval.ScoredChunk
	)

	for _, step := range plan.Steps {
		args := step.Args
		if step.ChainArg != "" {
			chained := chunkText(lastChunks)
			if chained == "" {
				return c.degrade(response,
					"I couldn't find transcript passages to answer that from. Try naming the video or cuisine.")
			}
			args = cloneArgs(args)
			args[step.ChainArg] = chained
		}

		slog.Debug("Turn state", "state", "tool_execution", "session_id", sessionID, "tool", step.Tool)
		result, err := c.registry.Execute(ctx, step.Tool, args)
		if c.metrics != nil {
			c.metrics.ObserveToolCall(step.Tool, err)
		}

		entry := TraceEntry{Tool: step.Tool, Kind: result.Kind}
		if err != nil {
			entry.Error = err.Error()
		}
		response.ToolTrace = append(response.ToolTrace, entry)

		if err != nil {
			return c.convertError(response, step.Tool, err)
		}

		if result.Kind == tools.KindRetrievedChunks {
			lastChunks = result.Chunks
		}
		results = append(results, result)
	}

	slog.Debug("Turn state", "state", "synthesis", "session_id", sessionID)
	c.synthesize(response, results)
	return response
}

// convertError is the taxonomy boundary: every tool failure becomes a
// degraded response here, nothing propagates raw to the transport layer.
func (c *Controller) convertError(response *AnswerResponse, tool string, err error) *AnswerResponse {
	slog.Warn("Tool execution failed", "tool", tool, "error", err)

	switch {
	case errors.Is(err, tools.ErrSearchDenied):
		return c.degrade(response,
			"Answering that needs a web search, which requires your permission. Ask again with web search enabled.")
	case errors.Is(err, vector.ErrIndexUnavailable):
		return c.degrade(response,
			"The video index is unreachable right now, so I couldn't search the transcripts. Please try again shortly.")
	case errors.Is(err, tools.ErrInvalidToolInput):
		return c.degrade(response,
			"I couldn't work out the details needed for that request. Could you rephrase it?")
	default:
		return c.degrade(response,
			"Something went wrong while handling that request. Please try again.")
	}
}

func (c *Controller) degrade(response *AnswerResponse, text string) *AnswerResponse {
	response.Text = text
	response.Degraded = true
	return response
}

// synthesize merges tool results into the answer in execution order, so
// identical inputs always produce identical responses.
func (c *Controller) synthesize(response *AnswerResponse, results []tools.ToolResult) {
	var sections []string
	seen := make(map[string]bool)

	for _, result := range results {
		switch result.Kind {
		case tools.KindRetrievedChunks:
			section, citations := renderChunks(result.Chunks)
			if section != "" {
				sections = append(sections, section)
			}
			for _, cite := range citations {
				if !seen[cite.ChunkID] {
					seen[cite.ChunkID] = true
					response.Citations = append(response.Citations, cite)
				}
			}

		case tools.KindComputedValue:
			sections = append(sections, renderComputed(result))

		case tools.KindSafetyVerdict:
			// Rejection reason is surfaced verbatim, with no suggestion.
			sections = append(sections, fmt.Sprintf(
				"I can't recommend that substitution: %s", result.Verdict.Reason))

		case tools.KindExternalSearch:
			sections = append(sections, renderSearch(result.Search))
		}
	}

	if len(sections) == 0 {
		response.Text = "I couldn't find anything relevant to that in the video transcripts."
		return
	}
	response.Text = strings.Join(sections, "\n\n")
}

// renderChunks composes the retrieval section. Chunks arrive pre-sorted by
// score; the top passages are quoted and every quoted chunk is cited.
func renderChunks(chunks []retrieval.ScoredChunk) (string, []Citation) {
	if len(chunks) == 0 {
		return "", nil
	}

	quoted := chunks
	if len(quoted) > 2 {
		quoted = quoted[:2]
	}

	var sb strings.Builder
	citations := make([]Citation, 0, len(quoted))
	for i, sc := range quoted {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		title := sc.Chunk.VideoTitle
		if title == "" {
			title = sc.Chunk.VideoID
		}
		fmt.Fprintf(&sb, "In %q (around %s): %s",
			title, formatTimestamp(sc.Chunk.Timestamp), strings.TrimSpace(sc.Chunk.Text))

		citations = append(citations, Citation{
			ChunkID:    sc.Chunk.ID,
			VideoID:    sc.Chunk.VideoID,
			VideoTitle: sc.Chunk.VideoTitle,
			Timestamp:  sc.Chunk.Timestamp,
		})
	}

	return sb.String(), citations
}

// renderComputed labels a computed answer by the tool that produced it.
func renderComputed(result tools.ToolResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", result.ToolName, result.Value.Value)
	if result.Value.Confidence != "" && result.Value.Confidence != "high" {
		fmt.Fprintf(&sb, " (confidence: %s)", result.Value.Confidence)
	}
	if result.Verdict != nil {
		for _, warning := range result.Verdict.Warnings {
			sb.WriteString("\nNote: ")
			sb.WriteString(warning)
		}
	}
	return sb.String()
}

func renderSearch(hits []tools.ExternalSearchResult) string {
	if len(hits) == 0 {
		return "[web_search] no results found"
	}

	var sb strings.Builder
	sb.WriteString("[web_search] From the web:")
	for _, hit := range hits {
		sb.WriteString("\n- ")
		sb.WriteString(hit.Snippet)
		if hit.URL != "" {
			fmt.Fprintf(&sb, " (%s)", hit.URL)
		}
	}
	return sb.String()
}

func chunkText(chunks []retrieval.ScoredChunk) string {
	var sb strings.Builder
	for _, sc := range chunks {
		sb.WriteString(sc.Chunk.Text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func cloneArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args)+1)
	for k, v := range args {
		out[k] = v
	}
	return out
}

func formatTimestamp(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
}

func (c *Controller) observeTurn(response *AnswerResponse, d time.Duration) {
	if c.metrics == nil {
		return
	}

	outcome := outcomeAnswered
	switch {
	case response.Degraded:
		outcome = outcomeDegraded
	case hasRejection(response):
		outcome = outcomeRejected
	}

	c.metrics.ObserveTurn(outcome, d)
	c.metrics.SessionsActive.Set(float64(c.store.Len()))
}

func hasRejection(response *AnswerResponse) bool {
	for _, entry := range response.ToolTrace {
		if entry.Kind == tools.KindSafetyVerdict {
			return true
		}
	}
	return false
}
