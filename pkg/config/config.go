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

// Package config defines and loads the application configuration.
//
// Configuration is YAML with ${VAR} / ${VAR:-default} environment expansion.
// Every config struct follows the same contract: SetDefaults fills zero
// values, Validate rejects bad ones, and loading always runs both.
package config

import (
	"fmt"

	"github.com/minddish/minddish/pkg/embedder"
	"github.com/minddish/minddish/pkg/retrieval"
	"github.com/minddish/minddish/pkg/session"
	"github.com/minddish/minddish/pkg/tools"
	"github.com/minddish/minddish/pkg/vector"
)

// Config is the top-level application configuration.
type Config struct {
	// Logging configures the slog setup.
	Logging LoggingConfig `yaml:"logging,omitempty"`

	// Server configures the HTTP server.
	Server ServerConfig `yaml:"server,omitempty"`

	// Vector configures the vector index backend.
	Vector vector.ProviderConfig `yaml:"vector,omitempty"`

	// Embedder configures query embedding.
	Embedder embedder.Config `yaml:"embedder,omitempty"`

	// Retrieval configures the index adapter (collection, top_k, retries).
	Retrieval retrieval.Config `yaml:"retrieval,omitempty"`

	// CatalogPath points at the curated video metadata JSON. Empty runs
	// without video titles.
	CatalogPath string `yaml:"catalog_path,omitempty"`

	// Session configures the conversation store.
	Session session.Config `yaml:"session,omitempty"`

	// Tools configures the tool catalog.
	Tools ToolsConfig `yaml:"tools,omitempty"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	// Level is debug, info, warn, or error (default info).
	Level string `yaml:"level,omitempty"`

	// Format is "simple" or "verbose" (default simple).
	Format string `yaml:"format,omitempty"`

	// Output is "stdout", "stderr", or a file path (default stderr).
	Output string `yaml:"output,omitempty"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// Address returns the listen address.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ToolsConfig configures the tool catalog.
type ToolsConfig struct {
	// Enabled toggles individual tools by name. Absent tools are enabled.
	Enabled map[string]*bool `yaml:"enabled,omitempty"`

	// WebSearch configures the permissioned web search tool.
	WebSearch tools.WebSearchConfig `yaml:"web_search,omitempty"`
}

// IsEnabled reports whether a tool should be registered.
func (c ToolsConfig) IsEnabled(name string) bool {
	if enabled, ok := c.Enabled[name]; ok && enabled != nil {
		return *enabled
	}
	return true
}

// SetDefaults applies default values throughout the tree.
func (c *Config) SetDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "simple"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	c.Vector.SetDefaults()
	c.Embedder.SetDefaults()
	c.Retrieval.SetDefaults()
	c.Session.SetDefaults()
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "simple", "verbose":
	default:
		return fmt.Errorf("logging.format must be simple or verbose, got %q", c.Logging.Format)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}

	if err := c.Vector.Validate(); err != nil {
		return fmt.Errorf("vector: %w", err)
	}
	if err := c.Embedder.Validate(); err != nil {
		return fmt.Errorf("embedder: %w", err)
	}
	if err := c.Retrieval.Validate(); err != nil {
		return fmt.Errorf("retrieval: %w", err)
	}
	return nil
}

// Default returns the zero-config setup: in-memory vector index and
// deterministic hash embedder, suitable for local runs and tests.
func Default() *Config {
	cfg := &Config{}
	cfg.Vector.Type = vector.ProviderMemory
	cfg.Embedder.Type = embedder.TypeHash
	cfg.SetDefaults()
	return cfg
}
