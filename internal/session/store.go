package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go-expediente-dashboard/internal/event"
	"go-expediente-dashboard/internal/model"
)

// Persister is the durable side of the session store. Load returns
// (nil, nil) when nothing is persisted.
type Persister interface {
	Save(ctx context.Context, sess model.Session) error
	Load(ctx context.Context) (*model.Session, error)
	Clear(ctx context.Context) error
}

// Store is the process-wide session cell: it holds at most one engine
// session, persists it across restarts, and notifies bus subscribers on
// every change. Only the auth service writes to it; reads are unrestricted.
type Store struct {
	mu        sync.RWMutex
	current   *model.Session
	persister Persister
	bus       event.Bus
	now       func() time.Time
}

func NewStore(persister Persister, bus event.Bus) *Store {
	return &Store{
		persister: persister,
		bus:       bus,
		now:       time.Now,
	}
}

// Set installs a new session, persisting it first so a crash between the two
// steps never leaves a live session that a restart cannot recover.
func (s *Store) Set(ctx context.Context, sess model.Session) error {
	if strings.TrimSpace(sess.Token) == "" {
		return fmt.Errorf("session store: %w: empty token", model.ErrInvalidInput)
	}

	if err := s.persister.Save(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	s.bus.Emit(event.TypeSessionStarted, model.SessionUser{
		ID:          sess.UserID,
		Username:    sess.Username,
		DisplayName: sess.DisplayName,
	})

	return nil
}

// Clear empties the cell and removes the persisted copy. Persistence
// failures are logged, never surfaced: clearing must always succeed from the
// caller's perspective.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	hadSession := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if err := s.persister.Clear(ctx); err != nil {
		slog.Warn("failed to clear persisted session", "error", err)
	}

	if hadSession {
		s.bus.Emit(event.TypeSessionCleared, nil)
	}
}

// Current returns a copy of the session, or nil when none is active.
func (s *Store) Current() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}

	copied := *s.current
	return &copied
}

// Token returns the active token when the session is still valid.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.current.Valid(s.now()) {
		return "", false
	}

	return s.current.Token, true
}

func (s *Store) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Valid(s.now())
}

// Restore loads any persisted session at startup. Expired or malformed state
// is cleared silently; Restore never fails and is idempotent.
func (s *Store) Restore(ctx context.Context) {
	sess, err := s.persister.Load(ctx)
	if err != nil {
		slog.Warn("discarding unreadable persisted session", "error", err)
		s.Clear(ctx)
		return
	}

	if sess == nil {
		return
	}

	if !sess.Valid(s.now()) {
		slog.Info("persisted session expired, clearing", "username", sess.Username)
		s.Clear(ctx)
		return
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.bus.Emit(event.TypeSessionStarted, model.SessionUser{
		ID:          sess.UserID,
		Username:    sess.Username,
		DisplayName: sess.DisplayName,
	})

	slog.Info("session restored", "username", sess.Username, "expires", sess.TokenExpiry)
}
