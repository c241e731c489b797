package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"go-expediente-dashboard/internal/engine"
	"go-expediente-dashboard/internal/model"
	"go-expediente-dashboard/internal/session"
)

// Both the test double and the real store must satisfy the interface the
// services are declared against.
var (
	_ SessionStore = (*memSessions)(nil)
	_ SessionStore = (*session.Store)(nil)
)

// memSessions is an in-memory SessionStore for tests.
type memSessions struct {
	mu      sync.Mutex
	sess    *model.Session
	cleared int
}

func newMemSessions(sess *model.Session) *memSessions {
	return &memSessions{sess: sess}
}

func (m *memSessions) Set(_ context.Context, sess model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = &sess
	return nil
}

func (m *memSessions) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	m.cleared++
}

func (m *memSessions) Current() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil
	}
	copied := *m.sess
	return &copied
}

func (m *memSessions) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil || !m.sess.Valid(time.Now()) {
		return "", false
	}
	return m.sess.Token, true
}

func (m *memSessions) Valid() bool {
	_, ok := m.Token()
	return ok
}

func (m *memSessions) Restore(_ context.Context) {}

func (m *memSessions) clearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleared
}

func activeSession() *model.Session {
	return &model.Session{
		UserID:      "usr-001",
		Username:    "jperez",
		DisplayName: "Juan Pérez",
		Token:       "engine-token",
		TokenExpiry: time.Now().Add(time.Hour),
	}
}

func newTestEngine(t interface{ Cleanup(func()) }, handler http.Handler) *engine.Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return engine.NewClient(engine.Config{
		BaseURL:   srv.URL,
		Workspace: "osplyfc",
		AuthMode:  engine.AuthModeLogin,
		Timeout:   2 * time.Second,
		Location:  time.UTC,
	})
}
