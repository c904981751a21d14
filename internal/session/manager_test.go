// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestManager(cfg Config) (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(cfg)
	m.now = clock.Now
	return m, clock
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Timeout != 30*time.Minute {
		t.Errorf("Default Timeout = %v, want 30m", cfg.Timeout)
	}
	if cfg.HistoryLimit != 50 {
		t.Errorf("Default HistoryLimit = %d, want 50", cfg.HistoryLimit)
	}
}

func TestNewManager_FillsZeroConfig(t *testing.T) {
	m := NewManager(Config{})
	if m.timeout != 30*time.Minute || m.limit != 50 {
		t.Errorf("zero config not defaulted: timeout=%v limit=%d", m.timeout, m.limit)
	}
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestResolve_EmptyIDCreates(t *testing.T) {
	m, _ := newTestManager(DefaultConfig())

	id, state := m.Resolve("")
	if id == "" {
		t.Fatal("Resolve(\"\") returned empty id")
	}
	if state.ID != id {
		t.Errorf("state.ID = %q, want %q", state.ID, id)
	}
	if _, ok := m.Get(id); !ok {
		t.Error("resolved session should exist")
	}
}

func TestResolve_UnknownIDAdopted(t *testing.T) {
	m, _ := newTestManager(DefaultConfig())

	id, _ := m.Resolve("client-chosen")
	if id != "client-chosen" {
		t.Errorf("Resolve kept id %q, want client-chosen", id)
	}
	if m.Stats().TotalSessions != 1 {
		t.Error("unknown id should create a session")
	}
}

func TestResolve_ExpiredSessionReset(t *testing.T) {
	m, clock := newTestManager(Config{Timeout: 10 * time.Minute, HistoryLimit: 5})

	id := m.Create()
	m.SetEmail(id, "a@b.co")
	m.AddExchange(id, "hi", "hello", "greeting")

	clock.Advance(11 * time.Minute)
	_, state := m.Resolve(id)
	if state.Email != "" || len(state.History) != 0 || state.LastIntent != "" {
		t.Errorf("expired session not reset: %+v", state)
	}
}

func TestResolve_TouchKeepsAlive(t *testing.T) {
	m, clock := newTestManager(Config{Timeout: 10 * time.Minute, HistoryLimit: 5})

	id := m.Create()
	m.SetEmail(id, "a@b.co")
	for i := 0; i < 3; i++ {
		clock.Advance(8 * time.Minute)
		m.Resolve(id)
	}
	_, state := m.Resolve(id)
	if state.Email != "a@b.co" {
		t.Error("active session should not expire")
	}
}

func TestAddExchange_TrimsToLimit(t *testing.T) {
	m, _ := newTestManager(Config{Timeout: time.Hour, HistoryLimit: 3})
	id := m.Create()

	for i := 0; i < 5; i++ {
		m.AddExchange(id, fmt.Sprintf("u%d", i), fmt.Sprintf("b%d", i), "")
	}

	h := m.History(id, 0)
	if len(h) != 3 {
		t.Fatalf("history length = %d, want 3", len(h))
	}
	if h[0].User != "u2" || h[2].User != "u4" {
		t.Errorf("history kept wrong exchanges: %v", h)
	}

	if got := m.History(id, 2); len(got) != 2 || got[1].User != "u4" {
		t.Errorf("History(id, 2) = %v", got)
	}
}

func TestAddExchange_LastIntent(t *testing.T) {
	m, _ := newTestManager(DefaultConfig())
	id := m.Create()

	m.AddExchange(id, "hi", "hello", "greeting")
	m.AddExchange(id, "???", "sorry", "")

	st, _ := m.Get(id)
	if st.LastIntent != "greeting" {
		t.Errorf("LastIntent = %q, want greeting", st.LastIntent)
	}
}

func TestClear(t *testing.T) {
	m, _ := newTestManager(DefaultConfig())
	id := m.Create()

	if !m.Clear(id) {
		t.Error("Clear of existing session should report true")
	}
	if m.Clear(id) {
		t.Error("second Clear should report false")
	}
	if _, ok := m.Get(id); ok {
		t.Error("cleared session still present")
	}
}

func TestCleanupExpiredAndStats(t *testing.T) {
	m, clock := newTestManager(Config{Timeout: 10 * time.Minute, HistoryLimit: 50})

	old := m.Create()
	m.AddExchange(old, "a", "b", "")
	clock.Advance(11 * time.Minute)

	recent := m.Create()
	m.AddExchange(recent, "c", "d", "")
	m.AddExchange(recent, "e", "f", "")

	stats := m.Stats()
	if stats.TotalSessions != 2 || stats.ActiveLast5Min != 1 || stats.TotalConversations != 3 {
		t.Errorf("Stats before cleanup = %+v", stats)
	}

	if n := m.CleanupExpired(); n != 1 {
		t.Errorf("CleanupExpired removed %d, want 1", n)
	}
	if _, ok := m.Get(old); ok {
		t.Error("expired session should be purged")
	}
	if _, ok := m.Get(recent); !ok {
		t.Error("recent session should survive")
	}
}

func TestRunJanitor_StopsOnCancel(t *testing.T) {
	m := NewManager(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

// Run with: go test -race ./internal/session/
func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id, _ := m.Resolve(fmt.Sprintf("s%d", n%5))
			m.AddExchange(id, "u", "b", "x")
			m.Stats()
			if n%10 == 0 {
				m.Clear(id)
			}
		}(i)
	}
	wg.Wait()
}
