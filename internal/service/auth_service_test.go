package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-expediente-dashboard/internal/model"
)

const testJWTSecret = "test-secret"

func TestAuthenticate(t *testing.T) {
	t.Run("installs session and issues gateway token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/1.0/osplyfc/login", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "engine-token",
				"expires_in":   3600,
			})
		})
		mux.HandleFunc("GET /api/1.0/osplyfc/user", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer engine-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]any{
				"usr_uid":       "usr-001",
				"usr_username":  "jperez",
				"usr_firstname": "Juan",
				"usr_lastname":  "Pérez",
			})
		})

		sessions := newMemSessions(nil)
		svc := NewAuthService(newTestEngine(t, mux), sessions, testJWTSecret)

		sess, token, err := svc.Authenticate(context.Background(), "jperez", "secret")
		require.NoError(t, err)
		require.Equal(t, "usr-001", sess.UserID)
		require.Equal(t, "Juan Pérez", sess.DisplayName)
		require.True(t, sessions.Valid())

		parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		require.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		require.Equal(t, "usr-001", claims["sub"])
		require.Equal(t, "jperez", claims["username"])
	})

	t.Run("login still succeeds when profile endpoint fails", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/1.0/osplyfc/login", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "engine-token", "expires_in": 3600})
		})
		mux.HandleFunc("GET /api/1.0/osplyfc/user", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		sessions := newMemSessions(nil)
		svc := NewAuthService(newTestEngine(t, mux), sessions, testJWTSecret)

		sess, _, err := svc.Authenticate(context.Background(), "jperez", "secret")
		require.NoError(t, err)
		require.Equal(t, "jperez", sess.UserID)
		require.Equal(t, "jperez", sess.DisplayName)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/1.0/osplyfc/login", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		sessions := newMemSessions(nil)
		svc := NewAuthService(newTestEngine(t, mux), sessions, testJWTSecret)

		_, _, err := svc.Authenticate(context.Background(), "jperez", "wrong")
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
		require.False(t, sessions.Valid())
	})

	t.Run("engine down", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/1.0/osplyfc/login", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		svc := NewAuthService(newTestEngine(t, mux), newMemSessions(nil), testJWTSecret)

		_, _, err := svc.Authenticate(context.Background(), "jperez", "secret")
		require.ErrorIs(t, err, model.ErrServiceUnavailable)
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		svc := NewAuthService(newTestEngine(t, http.NewServeMux()), newMemSessions(nil), testJWTSecret)

		_, _, err := svc.Authenticate(context.Background(), "", "secret")
		require.Error(t, err)
	})
}

func TestLogout(t *testing.T) {
	t.Run("clears session even when revocation fails", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /osplyfc/oauth2/revoke", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		sessions := newMemSessions(activeSession())
		svc := NewAuthService(newTestEngine(t, mux), sessions, testJWTSecret)

		svc.Logout(context.Background())
		require.False(t, sessions.Valid())
		require.Equal(t, 1, sessions.clearCount())
	})

	t.Run("no-op without a session", func(t *testing.T) {
		sessions := newMemSessions(nil)
		svc := NewAuthService(newTestEngine(t, http.NewServeMux()), sessions, testJWTSecret)

		svc.Logout(context.Background())
		require.Equal(t, 1, sessions.clearCount())
	})
}

func TestValidateToken(t *testing.T) {
	mux := http.NewServeMux()

	t.Run("valid token for active session", func(t *testing.T) {
		sessions := newMemSessions(activeSession())
		svc := NewAuthService(newTestEngine(t, mux), sessions, testJWTSecret)

		token, err := svc.issueToken(*sessions.Current())
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		require.Equal(t, "usr-001", claims.UserID)
		require.Equal(t, "jperez", claims.Username)
	})

	t.Run("rejected after session cleared", func(t *testing.T) {
		sessions := newMemSessions(activeSession())
		svc := NewAuthService(newTestEngine(t, mux), sessions, testJWTSecret)

		token, err := svc.issueToken(*sessions.Current())
		require.NoError(t, err)

		sessions.Clear(context.Background())
		_, err = svc.ValidateToken(token)
		require.ErrorIs(t, err, model.ErrSessionExpired)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := NewAuthService(newTestEngine(t, mux), newMemSessions(activeSession()), testJWTSecret)

		_, err := svc.ValidateToken("not.a.token")
		require.Error(t, err)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		sessions := newMemSessions(activeSession())
		other := NewAuthService(newTestEngine(t, mux), sessions, "other-secret")
		token, err := other.issueToken(*sessions.Current())
		require.NoError(t, err)

		svc := NewAuthService(newTestEngine(t, mux), sessions, testJWTSecret)
		_, err = svc.ValidateToken(token)
		require.Error(t, err)
	})
}

func TestCurrentUser(t *testing.T) {
	svc := NewAuthService(newTestEngine(t, http.NewServeMux()), newMemSessions(activeSession()), testJWTSecret)

	user, err := svc.CurrentUser()
	require.NoError(t, err)
	require.Equal(t, model.SessionUser{ID: "usr-001", Username: "jperez", DisplayName: "Juan Pérez"}, user)

	expired := activeSession()
	expired.TokenExpiry = time.Now().Add(-time.Minute)
	svc = NewAuthService(newTestEngine(t, http.NewServeMux()), newMemSessions(expired), testJWTSecret)

	_, err = svc.CurrentUser()
	require.ErrorIs(t, err, model.ErrNoSession)
}
