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

// Package session provides conversation session storage.
//
// A session holds a bounded, ordered window of conversation turns. Turns are
// immutable once appended; when the window is full the oldest turn is evicted
// first. The store owns session lifecycle: creation, inactivity expiry, and
// deletion. Turn processing is serialized per session through the session's
// own lock, while distinct sessions proceed concurrently.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session doesn't exist or has expired.
var ErrSessionNotFound = errors.New("session not found")

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one immutable conversation turn.
type Turn struct {
	// Role is who authored the turn.
	Role Role `json:"role"`

	// Text is the turn content.
	Text string `json:"text"`

	// CitedChunks holds the chunk ids cited by an assistant turn, empty for
	// user turns and for computed (tool-labeled) answers.
	CitedChunks []string `json:"cited_chunks,omitempty"`

	// ToolName labels a computed answer with the tool that produced it.
	ToolName string `json:"tool_name,omitempty"`

	// Timestamp is when the turn was appended.
	Timestamp time.Time `json:"timestamp"`
}

// Session is one conversation's state.
type Session struct {
	id         string
	turns      []Turn
	maxTurns   int
	lastActive time.Time

	// mu serializes whole turns: the controller holds it from interpretation
	// through synthesis so interleaved turns cannot corrupt the window.
	mu sync.Mutex

	// stateMu guards turns and lastActive for readers that don't hold mu.
	stateMu sync.RWMutex
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Lock acquires the session's turn lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Append adds a turn, evicting the oldest when the window is full.
func (s *Session) Append(turn Turn) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	s.turns = append(s.turns, turn)
	if len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
	s.lastActive = time.Now()
}

// Turns returns a copy of the current window, oldest first.
func (s *Session) Turns() []Turn {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns in the window.
func (s *Session) Len() int {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return len(s.turns)
}

// LastActive returns when the session last appended a turn.
func (s *Session) LastActive() time.Time {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.lastActive
}

// Config configures the session store.
type Config struct {
	// MaxTurns bounds the per-session window (default 20).
	MaxTurns int `yaml:"max_turns,omitempty" mapstructure:"max_turns"`

	// Expiry is the inactivity window after which a session is removed
	// (default 30m).
	Expiry time.Duration `yaml:"expiry,omitempty" mapstructure:"expiry"`

	// SweepInterval is how often the janitor scans for expired sessions
	// (default 1m).
	SweepInterval time.Duration `yaml:"sweep_interval,omitempty" mapstructure:"sweep_interval"`
}

// SetDefaults applies default values.
func (c *Config) SetDefaults() {
	if c.MaxTurns <= 0 {
		c.MaxTurns = 20
	}
	if c.Expiry <= 0 {
		c.Expiry = 30 * time.Minute
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
}

// Store is an in-memory session store.
type Store struct {
	config   Config
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewStore creates a session store.
func NewStore(cfg Config) *Store {
	cfg.SetDefaults()
	return &Store{
		config:   cfg,
		sessions: make(map[string]*Session),
	}
}

// Create creates a session. An empty id is generated. When a session with
// the id already exists it is returned unchanged, so concurrent first turns
// for the same id converge on one Session and serialize on its lock.
func (st *Store) Create(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[id]; ok {
		return s
	}

	s := &Session{
		id:         id,
		maxTurns:   st.config.MaxTurns,
		lastActive: time.Now(),
	}
	st.sessions[id] = s

	return s
}

// Get retrieves a session by id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetOrCreate retrieves a session, creating it on first use.
func (st *Store) GetOrCreate(id string) *Session {
	if id != "" {
		if s, err := st.Get(id); err == nil {
			return s
		}
	}
	return st.Create(id)
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle past the expiry window and returns how many
// were removed.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.LastActive()) > st.config.Expiry {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired sessions until the context is canceled.
func (st *Store) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(st.config.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := st.Sweep(now); removed > 0 {
					slog.Debug("Expired idle sessions", "removed", removed)
				}
			}
		}
	}()
}
