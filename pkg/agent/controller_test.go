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

package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minddish/minddish/pkg/catalog"
	"github.com/minddish/minddish/pkg/embedder"
	"github.com/minddish/minddish/pkg/retrieval"
	"github.com/minddish/minddish/pkg/safety"
	"github.com/minddish/minddish/pkg/session"
	"github.com/minddish/minddish/pkg/tools"
	"github.com/minddish/minddish/pkg/vector"
)

// controllerFixture assembles a controller over an in-memory index.
func controllerFixture(t *testing.T, seed bool) *Controller {
	t.Helper()
	ctx := context.Background()

	emb := embedder.NewHashEmbedder(64)
	provider := vector.NewMemoryProvider()

	if seed {
		chunks := []struct {
			id, videoID, text string
			timestamp         int
		}{
			{"Jollof101:142", "Jollof101", "let the jollof rice simmer on low heat for 20 minutes", 142},
			{"Jollof101:60", "Jollof101", "blend the tomato, scotch bonnet and onion into a smooth base", 60},
			{"PadThai200:55", "PadThai200", "soak the rice noodles in warm water before you stir fry", 55},
		}
		for _, c := range chunks {
			vec, err := emb.Embed(ctx, c.text)
			require.NoError(t, err)
			require.NoError(t, provider.Upsert(ctx, "transcripts", c.id, vec, map[string]any{
				"video_id":  c.videoID,
				"text":      c.text,
				"timestamp": c.timestamp,
			}))
		}
	}

	cat := catalog.New([]catalog.VideoMetadata{
		{ID: "Jollof101", Title: "Jollof Rice Masterclass", Cuisine: "nigerian"},
		{ID: "PadThai200", Title: "Pad Thai", Cuisine: "thai"},
	})

	adapter := retrieval.New(retrieval.Config{
		Collection:   "transcripts",
		TopK:         4,
		MaxAttempts:  2,
		RetryBackoff: time.Millisecond,
	}, emb, provider, cat)

	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(tools.NewVideoQATool(adapter)))
	require.NoError(t, registry.Register(tools.NewIngredientExtractionTool()))
	require.NoError(t, registry.Register(tools.NewCookingTimeEstimationTool()))
	require.NoError(t, registry.Register(tools.NewRecipeComparisonTool(adapter, cat)))
	require.NoError(t, registry.Register(tools.NewSubstitutionAdvisorTool(safety.NewGate())))
	require.NoError(t, registry.Register(tools.NewWebSearchTool(tools.WebSearchConfig{})))

	store := session.NewStore(session.Config{MaxTurns: 4})
	return NewController(store, registry, NewRuleClassifier(cat), nil)
}

func TestAskEmptyQuery(t *testing.T) {
	c := controllerFixture(t, true)

	_, err := c.Ask(context.Background(), "", "   ", false)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestAskCitesRetrievedChunks(t *testing.T) {
	c := controllerFixture(t, true)

	response, err := c.Ask(context.Background(), "", "How long does the jollof rice simmer?", false)
	require.NoError(t, err)
	require.NotNil(t, response)
	assert.False(t, response.Degraded)

	// The answer must cite the transcript evidence it was derived from.
	require.NotEmpty(t, response.Citations)
	top := response.Citations[0]
	assert.Equal(t, "Jollof101:142", top.ChunkID)
	assert.Equal(t, "Jollof101", top.VideoID)
	assert.Equal(t, 142, top.Timestamp)
	assert.Contains(t, response.Text, "Jollof Rice Masterclass")
	assert.NotEmpty(t, response.SessionID)
}

func TestAskSubstitutionRejection(t *testing.T) {
	c := controllerFixture(t, true)

	response, err := c.Ask(context.Background(), "",
		"Can I replace peanuts in the satay sauce? I'm allergic to peanuts.", false)
	require.NoError(t, err)

	// Rejection is an answer, not a failure: the reason is surfaced
	// verbatim and no substitute is suggested.
	assert.False(t, response.Degraded)
	assert.Contains(t, response.Text, "peanut")
	assert.Contains(t, response.Text, "can't recommend")
	assert.Empty(t, response.Citations)
}

func TestAskDegradesWhenIndexUnavailable(t *testing.T) {
	// Unseeded index: the collection does not exist, every search fails
	// with ErrIndexUnavailable.
	c := controllerFixture(t, false)

	response, err := c.Ask(context.Background(), "", "What goes into the base sauce?", false)
	require.NoError(t, err, "index failures must degrade, not error")
	assert.True(t, response.Degraded)
	assert.Contains(t, response.Text, "unreachable")
	assert.Empty(t, response.Citations)

	// The failed retrieval is still recorded in the trace, flagged with the
	// index-unavailable cause.
	require.NotEmpty(t, response.ToolTrace)
	assert.Equal(t, "video_qa", response.ToolTrace[0].Tool)
	assert.Contains(t, response.ToolTrace[0].Error, "vector index unavailable")
}

func TestAskWebSearchWithoutConsent(t *testing.T) {
	c := controllerFixture(t, true)

	response, err := c.Ask(context.Background(), "",
		"Please search the web for the history of jollof rice", false)
	require.NoError(t, err)
	assert.True(t, response.Degraded)
	assert.Contains(t, response.Text, "permission")
}

func TestAskSessionContinuity(t *testing.T) {
	c := controllerFixture(t, true)
	ctx := context.Background()

	first, err := c.Ask(ctx, "", "How long does the jollof rice simmer?", false)
	require.NoError(t, err)

	second, err := c.Ask(ctx, first.SessionID, "List the ingredients for the jollof", false)
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	// MaxTurns is 4: two turns per ask, window stays bounded.
	sess, err := c.store.Get(first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 4, sess.Len())

	third, err := c.Ask(ctx, first.SessionID, "Compare the nigerian and thai recipes", false)
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, third.SessionID)
	assert.Equal(t, 4, sess.Len(), "oldest turns evicted first")
}

func TestAskComparisonIdenticalSubjects(t *testing.T) {
	c := controllerFixture(t, true)

	response, err := c.Ask(context.Background(), "",
		"Compare the thai and thai recipes", false)
	require.NoError(t, err)
	assert.False(t, response.Degraded)
	assert.Contains(t, response.Text, "no differences found")
}

func TestAskRecordsToolTrace(t *testing.T) {
	c := controllerFixture(t, true)

	response, err := c.Ask(context.Background(), "", "How long does the jollof rice simmer?", false)
	require.NoError(t, err)

	require.Len(t, response.ToolTrace, 2)
	assert.Equal(t, "video_qa", response.ToolTrace[0].Tool)
	assert.Equal(t, "estimate_cooking_time", response.ToolTrace[1].Tool)
}
