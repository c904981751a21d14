// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/session"
	"github.com/jeranaias/chatterm/internal/util"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr matches the client's default base URL.
	DefaultAddr = ":5000"

	// MaxBodyBytes caps a POST /chat body.
	MaxBodyBytes = 64 << 10

	// MaxMessageLength mirrors the client-side limit.
	MaxMessageLength = 1000

	// DefaultJanitorInterval is how often expired sessions are purged.
	DefaultJanitorInterval = time.Minute

	shutdownTimeout = 5 * time.Second
)

// ============================================================================
// SERVER
// ============================================================================

// Server is the development chat backend.
type Server struct {
	addr      string
	sessions  *session.Manager
	responder *Responder
	limiter   *RateLimiter
	janitor   time.Duration
	started   time.Time

	server *http.Server
	mu     sync.RWMutex
}

// New creates a server listening on addr. An empty addr uses DefaultAddr.
func New(addr string, sessions *session.Manager) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if sessions == nil {
		sessions = session.NewManager(session.DefaultConfig())
	}
	return &Server{
		addr:      addr,
		sessions:  sessions,
		responder: NewResponder(),
		janitor:   DefaultJanitorInterval,
		started:   time.Now(),
	}
}

// WithResponder sets a custom responder.
func (s *Server) WithResponder(r *Responder) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responder = r
	return s
}

// WithRateLimiter enables per-IP rate limiting.
func (s *Server) WithRateLimiter(rl *RateLimiter) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiter = rl
	return s
}

// WithJanitorInterval sets how often Run purges expired sessions.
func (s *Server) WithJanitorInterval(d time.Duration) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.janitor = d
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ============================================================================
// ROUTES
// ============================================================================

// Handler returns the full HTTP handler including middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	s.mu.RLock()
	limiter := s.limiter
	s.mu.RUnlock()
	if limiter != nil {
		r.Use(RateLimitMiddleware(limiter))
	}

	s.RegisterRoutes(r)

	return cors.AllowAll().Handler(r)
}

// RegisterRoutes mounts the chat endpoints on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/chat", s.handleChat)
	r.Delete("/session/{sessionID}", s.handleDeleteSession)
	r.Get("/stats", s.handleStats)
	r.Get("/healthz", s.handleHealth)
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if util.RuneLen(message) > MaxMessageLength {
		respondError(w, http.StatusBadRequest, "message too long")
		return
	}

	requested := ""
	if req.SessionID != nil {
		requested = strings.TrimSpace(*req.SessionID)
	}
	id, state := s.sessions.Resolve(requested)

	s.mu.RLock()
	responder := s.responder
	s.mu.RUnlock()

	reply := responder.Respond(state, message)
	if reply.Email != "" {
		s.sessions.SetEmail(id, reply.Email)
	}
	s.sessions.AddExchange(id, message, reply.Text, reply.Intent)

	log.Debug().
		Str("session", util.ShortID(id, 8)).
		Str("intent", reply.Intent).
		Msg("chat reply")

	respondJSON(w, http.StatusOK, api.ChatResponse{
		Response:  reply.Text,
		SessionID: id,
		Intent:    reply.Intent,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if s.sessions.Clear(id) {
		log.Debug().Str("session", util.ShortID(id, 8)).Msg("session cleared")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.sessions.Stats())
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// httpServer returns the underlying http.Server, creating it once.
func (s *Server) httpServer() *http.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		s.server = &http.Server{
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
	}
	return s.server
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	handler := s.Handler()
	srv := s.httpServer()
	srv.Handler = handler

	log.Info().Str("addr", l.Addr().String()).Msg("server listening")
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	log.Info().Msg("server shutting down")
	return srv.Shutdown(ctx)
}

// Run listens on the configured address and serves until ctx is cancelled.
// The session janitor runs for the same lifetime.
func (s *Server) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.RLock()
	interval := s.janitor
	s.mu.RUnlock()
	go s.sessions.RunJanitor(ctx, interval)

	s.httpServer()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(l) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer stop()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// ============================================================================
// HELPERS
// ============================================================================

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

// respondError writes {"error": message}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
