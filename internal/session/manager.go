// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// =============================================================================
// TYPES
// =============================================================================

// Exchange is one user message and the reply it received.
type Exchange struct {
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// State is a copy of one session's data.
type State struct {
	ID           string
	LastIntent   string
	Email        string
	History      []Exchange
	CreatedAt    time.Time
	LastActivity time.Time
}

type entry struct {
	lastIntent   string
	email        string
	history      []Exchange
	createdAt    time.Time
	lastActivity time.Time
}

func (e *entry) snapshot(id string) State {
	return State{
		ID:           id,
		LastIntent:   e.lastIntent,
		Email:        e.email,
		History:      append([]Exchange(nil), e.history...),
		CreatedAt:    e.createdAt,
		LastActivity: e.lastActivity,
	}
}

// Stats summarizes the manager.
type Stats struct {
	TotalSessions      int       `json:"total_sessions"`
	ActiveLast5Min     int       `json:"active_last_5min"`
	TotalConversations int       `json:"total_conversations"`
	Timestamp          time.Time `json:"timestamp"`
}

// Config holds configuration for the session manager.
type Config struct {
	// Timeout resets a session idle for longer than this.
	Timeout time.Duration
	// HistoryLimit caps stored exchanges per session.
	HistoryLimit int
}

// DefaultConfig returns a 30 minute timeout and 50 exchange history.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Minute,
		HistoryLimit: 50,
	}
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager holds every live session. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	timeout  time.Duration
	limit    int
	now      func() time.Time
}

// NewManager creates an empty manager.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}
	return &Manager{
		sessions: make(map[string]*entry),
		timeout:  cfg.Timeout,
		limit:    cfg.HistoryLimit,
		now:      time.Now,
	}
}

func (m *Manager) fresh() *entry {
	now := m.now()
	return &entry{createdAt: now, lastActivity: now}
}

// Create starts a new session and returns its ID.
func (m *Manager) Create() string {
	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = m.fresh()
	m.mu.Unlock()
	return id
}

// Resolve returns the session for id, touching its activity time. An empty
// id creates a new session. An unknown id is adopted as a new session. An
// expired session is reset in place.
func (m *Manager) Resolve(id string) (string, State) {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.getLocked(id)
	return id, e.snapshot(id)
}

// getLocked returns a live entry for id, creating or resetting as needed.
func (m *Manager) getLocked(id string) *entry {
	e, ok := m.sessions[id]
	now := m.now()
	switch {
	case !ok:
		e = m.fresh()
		m.sessions[id] = e
	case now.Sub(e.lastActivity) > m.timeout:
		log.Debug().Str("session", id).Msg("session expired, resetting")
		e = m.fresh()
		m.sessions[id] = e
	default:
		e.lastActivity = now
	}
	return e
}

// Get returns a copy of the session without creating or touching it.
func (m *Manager) Get(id string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return State{}, false
	}
	return e.snapshot(id), true
}

// SetEmail records an email address for the session.
func (m *Manager) SetEmail(id, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getLocked(id).email = email
}

// AddExchange appends to the session history, trimming to the limit, and
// records intent as the last intent when non-empty.
func (m *Manager) AddExchange(id, user, bot, intent string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.getLocked(id)
	e.history = append(e.history, Exchange{
		User:      user,
		Bot:       bot,
		Intent:    intent,
		Timestamp: m.now(),
	})
	if len(e.history) > m.limit {
		e.history = append([]Exchange(nil), e.history[len(e.history)-m.limit:]...)
	}
	if intent != "" {
		e.lastIntent = intent
	}
}

// History returns up to limit of the most recent exchanges.
func (m *Manager) History(id string, limit int) []Exchange {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || len(e.history) == 0 {
		return nil
	}
	h := e.history
	if limit > 0 && len(h) > limit {
		h = h[len(h)-limit:]
	}
	return append([]Exchange(nil), h...)
}

// Clear deletes a session. It reports whether the session existed.
func (m *Manager) Clear(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// CleanupExpired removes idle sessions and returns how many were removed.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastActivity) > m.timeout {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Stats returns counts across all sessions.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stats := Stats{TotalSessions: len(m.sessions), Timestamp: now}
	for _, e := range m.sessions {
		if now.Sub(e.lastActivity) < 5*time.Minute {
			stats.ActiveLast5Min++
		}
		stats.TotalConversations += len(e.history)
	}
	return stats
}

// RunJanitor purges expired sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.CleanupExpired(); n > 0 {
				log.Info().Int("removed", n).Msg("expired sessions purged")
			}
		}
	}
}
