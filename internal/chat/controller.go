// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/model"
	"github.com/jeranaias/chatterm/internal/storage"
	"github.com/jeranaias/chatterm/internal/util"
)

const (
	// MaxMessageLength is the longest accepted message, in characters.
	MaxMessageLength = 1000

	// DefaultGreeting opens every conversation.
	DefaultGreeting = "Hello! I'm your AI assistant. How can I help you today?"

	// FailureReply is appended to the transcript when a request fails.
	FailureReply = "Sorry, I couldn't reach the server. Please try again."

	// DefaultClearTimeout bounds the best-effort backend delete.
	DefaultClearTimeout = 5 * time.Second
)

// Backend is the subset of the API client the controller needs.
type Backend interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Snapshot is an immutable copy of controller state for rendering.
type Snapshot struct {
	Messages  []model.Message
	SessionID string
	Pending   bool
	Error     *Banner
}

// IsWelcomeState reports whether only the greeting is shown.
func (s Snapshot) IsWelcomeState() bool {
	return len(s.Messages) == 1 && !s.Messages[0].IsUser()
}

// Option configures a Controller.
type Option func(*Controller)

// WithGreeting overrides the opening assistant message.
func WithGreeting(greeting string) Option {
	return func(c *Controller) {
		if strings.TrimSpace(greeting) != "" {
			c.greeting = greeting
		}
	}
}

// WithClearTimeout overrides how long Clear waits on the backend delete.
func WithClearTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.clearTimeout = d
		}
	}
}

// Controller owns one conversation.
type Controller struct {
	backend      Backend
	store        storage.Store
	greeting     string
	clearTimeout time.Duration

	mu         sync.Mutex
	transcript *model.Transcript
	sessionID  string
	pending    bool
	lastErr    *Banner

	// epoch increments on Clear so replies to earlier requests are dropped.
	epoch uint64

	// storeMu orders writes of the session key so a Clear always lands
	// after any persist it raced with.
	storeMu sync.Mutex

	observersMu sync.RWMutex
	observers   []func()

	// background tracks best-effort session deletes.
	background sync.WaitGroup
}

// New creates a controller showing only the greeting.
func New(backend Backend, store storage.Store, opts ...Option) *Controller {
	c := &Controller{
		backend:      backend,
		store:        store,
		greeting:     DefaultGreeting,
		clearTimeout: DefaultClearTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transcript = model.NewTranscript(c.greeting)
	return c
}

// OnChange registers fn to run after every state change. Observers run on
// the goroutine that made the change and must not block.
func (c *Controller) OnChange(fn func()) {
	c.observersMu.Lock()
	defer c.observersMu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Controller) notify() {
	c.observersMu.RLock()
	observers := append([]func(){}, c.observers...)
	c.observersMu.RUnlock()
	for _, fn := range observers {
		fn()
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Messages:  c.transcript.Messages(),
		SessionID: c.sessionID,
		Pending:   c.pending,
		Error:     c.lastErr,
	}
}

// SessionID returns the held session identifier, or "".
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Pending reports whether a request is outstanding.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// =============================================================================
// SEND
// =============================================================================

// Send validates text, appends it, and waits for the assistant's reply.
//
// It returns ErrBusy when a request is already outstanding and a
// *ValidationError when text is rejected. Network failures are not returned:
// they are recorded in the transcript and the error banner.
func (c *Controller) Send(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return ErrBusy
	}

	text, verr := normalize(text)
	if verr != nil {
		c.lastErr = bannerFor(verr)
		c.mu.Unlock()
		c.notify()
		return verr
	}

	c.lastErr = nil
	c.transcript.Append(model.NewUserMessage(text))
	c.pending = true
	epoch := c.epoch
	req := api.NewChatRequest(text, c.sessionID)
	c.mu.Unlock()
	c.notify()

	defer func() {
		c.mu.Lock()
		if c.epoch == epoch {
			c.pending = false
		}
		c.mu.Unlock()
		c.notify()
	}()

	resp, err := c.backend.Chat(ctx, req)

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		log.Debug().Msg("dropping reply for a cleared conversation")
		return nil
	}

	if err != nil {
		banner := bannerFor(err)
		c.transcript.Append(model.NewAssistantMessage(FailureReply, ""))
		c.lastErr = banner
		c.mu.Unlock()
		log.Warn().Err(err).Str("kind", string(banner.Kind)).Msg("chat request failed")
		return nil
	}

	adopted := ""
	if resp.SessionID != "" && c.sessionID == "" {
		c.sessionID = resp.SessionID
		adopted = resp.SessionID
	}
	c.transcript.Append(model.NewAssistantMessage(resp.Response, resp.Intent))
	c.mu.Unlock()

	if adopted != "" {
		c.persistSession(ctx, adopted, epoch)
	}
	return nil
}

// normalize applies NFC, trims, and enforces the length limit.
func normalize(text string) (string, error) {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return "", &ValidationError{Reason: ReasonEmpty}
	}
	if util.RuneLen(text) > MaxMessageLength {
		return "", &ValidationError{Reason: ReasonTooLong}
	}
	return text, nil
}

// persistSession writes a newly adopted session id unless a Clear has
// happened since it was adopted. Failures are logged.
func (c *Controller) persistSession(ctx context.Context, id string, epoch uint64) {
	if c.store == nil {
		return
	}
	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	c.mu.Lock()
	current := c.epoch == epoch && c.sessionID == id
	c.mu.Unlock()
	if !current {
		log.Debug().Msg("skipping persist for a cleared session")
		return
	}

	if err := c.store.Set(ctx, storage.SessionKey, id); err != nil {
		log.Warn().Err(err).Msg("failed to persist session id")
		return
	}
	log.Debug().Str("session", util.ShortID(id, 8)).Msg("session persisted")
}

// =============================================================================
// CLEAR
// =============================================================================

// Clear asks confirm, then resets the conversation to the greeting and
// forgets the session locally and in the store. The backend is told to drop
// the session in the background; that outcome is only logged.
//
// It reports whether the conversation was cleared. The returned error is
// from confirm or from removing the stored id; in the latter case the
// in-memory state is already reset.
func (c *Controller) Clear(ctx context.Context, confirm Confirmer) (bool, error) {
	if confirm == nil {
		confirm = NeverConfirm
	}
	ok, err := confirm.Confirm(ctx, ClearPrompt)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	c.mu.Lock()
	oldID := c.sessionID
	c.transcript.Reset(c.greeting)
	c.sessionID = ""
	c.lastErr = nil
	c.pending = false
	c.epoch++
	c.mu.Unlock()

	if oldID != "" {
		c.deleteRemote(ctx, oldID)
	}

	var storeErr error
	if c.store != nil {
		c.storeMu.Lock()
		if err := c.store.Remove(ctx, storage.SessionKey); err != nil {
			log.Warn().Err(err).Msg("failed to remove persisted session id")
			storeErr = err
		}
		c.storeMu.Unlock()
	}

	c.notify()
	return true, storeErr
}

// deleteRemote fires the best-effort backend delete.
func (c *Controller) deleteRemote(ctx context.Context, id string) {
	c.background.Add(1)
	go func() {
		defer c.background.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.clearTimeout)
		defer cancel()

		if err := c.backend.DeleteSession(ctx, id); err != nil {
			cerr := &ClearSessionError{SessionID: util.ShortID(id, 8), Err: err}
			log.Warn().Err(cerr).Msg("backend session not cleared")
			return
		}
		log.Debug().Str("session", util.ShortID(id, 8)).Msg("backend session cleared")
	}()
}

// Wait blocks until background session deletes finish.
func (c *Controller) Wait() {
	c.background.Wait()
}

// =============================================================================
// SESSION PERSISTENCE
// =============================================================================

// LoadPersistedSession adopts a stored session id, if any. History is
// never fetched; only the id carries over.
func (c *Controller) LoadPersistedSession(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	id, ok, err := c.store.Get(ctx, storage.SessionKey)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return nil
	}

	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
	c.notify()

	log.Debug().Str("session", util.ShortID(id, 8)).Msg("resumed persisted session")
	return nil
}

// DismissError clears the banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	had := c.lastErr != nil
	c.lastErr = nil
	c.mu.Unlock()
	if had {
		c.notify()
	}
}

// IsValidationError reports whether err rejected the text before sending.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
