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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minddish/minddish/pkg/embedder"
	"github.com/minddish/minddish/pkg/vector"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
vector:
  type: memory
embedder:
  type: hash
`))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "simple", cfg.Logging.Format)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "transcripts", cfg.Retrieval.Collection)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Equal(t, 20, cfg.Session.MaxTurns)
}

func TestParseEnvExpansion(t *testing.T) {
	t.Setenv("MINDDISH_PORT", "9090")
	t.Setenv("MINDDISH_LEVEL", "debug")

	cfg, err := Parse([]byte(`
logging:
  level: ${MINDDISH_LEVEL}
server:
  port: ${MINDDISH_PORT}
vector:
  type: memory
embedder:
  type: hash
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestParseEnvDefaultFallback(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  host: ${MINDDISH_UNSET_HOST:-127.0.0.1}
vector:
  type: memory
embedder:
  type: hash
`))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestParseDurations(t *testing.T) {
	cfg, err := Parse([]byte(`
vector:
  type: memory
embedder:
  type: hash
retrieval:
  retry_backoff: 250ms
session:
  expiry: 45m
`))
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Retrieval.RetryBackoff)
	assert.Equal(t, 45*time.Minute, cfg.Session.Expiry)
}

func TestParseValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "bad logging format",
			yaml: "logging:\n  format: fancy\n",
		},
		{
			name: "port out of range",
			yaml: "server:\n  port: 70000\n",
		},
		{
			name: "top_k over cap",
			yaml: "retrieval:\n  top_k: 25\n",
		},
		{
			name: "unknown vector provider",
			yaml: "vector:\n  type: pinecone\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("server: [not: a: map"))
	assert.Error(t, err)
}

func TestToolsIsEnabled(t *testing.T) {
	cfg, err := Parse([]byte(`
vector:
  type: memory
embedder:
  type: hash
tools:
  enabled:
    web_search: false
`))
	require.NoError(t, err)

	assert.False(t, cfg.Tools.IsEnabled("web_search"))
	assert.True(t, cfg.Tools.IsEnabled("video_qa"))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, vector.ProviderMemory, cfg.Vector.Type)
	assert.Equal(t, embedder.TypeHash, cfg.Embedder.Type)
}
