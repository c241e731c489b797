package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-expediente-dashboard/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:   server.URL,
		Workspace: "osplyfc",
		AuthMode:  AuthModeLogin,
		Location:  time.UTC,
	})

	return client, server
}

func TestClientLogin(t *testing.T) {
	t.Parallel()

	t.Run("direct login posts the password grant and returns the token", func(t *testing.T) {
		var gotBody map[string]string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/1.0/osplyfc/login", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-123",
				"expires_in":   3600,
				"token_type":   "bearer",
			})
		}))

		token, expires, err := client.Login(context.Background(), "maria", "secret")

		require.NoError(t, err)
		require.Equal(t, "tok-123", token)
		require.Equal(t, time.Hour, expires)
		require.Equal(t, "password", gotBody["grant_type"])
		require.Equal(t, "maria", gotBody["username"])
	})

	t.Run("oauth2 mode uses the workspace token endpoint with client metadata", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/osplyfc/oauth2/token", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "client-id", body["client_id"])
			require.Equal(t, "client-secret", body["client_secret"])
			require.Equal(t, "*", body["scope"])

			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-oauth", "expires_in": 86400})
		}))
		defer server.Close()

		client := NewClient(Config{
			BaseURL:      server.URL,
			Workspace:    "osplyfc",
			AuthMode:     AuthModeOAuth2,
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Scope:        "*",
			Location:     time.UTC,
		})

		token, _, err := client.Login(context.Background(), "maria", "secret")
		require.NoError(t, err)
		require.Equal(t, "tok-oauth", token)
	})

	t.Run("401 maps to invalid credentials", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, _, err := client.Login(context.Background(), "maria", "wrong")
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("5xx maps to service unavailable", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		_, _, err := client.Login(context.Background(), "maria", "secret")
		require.ErrorIs(t, err, model.ErrServiceUnavailable)
	})

	t.Run("connection refused maps to service unavailable", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Workspace: "osplyfc", Location: time.UTC})

		_, _, err := client.Login(context.Background(), "maria", "secret")
		require.ErrorIs(t, err, model.ErrServiceUnavailable)
	})
}

func TestClientFetchCases(t *testing.T) {
	t.Parallel()

	t.Run("sends the bearer token and normalizes records", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/1.0/osplyfc/cases", r.URL.Path)
			require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

			_, _ = w.Write([]byte(`[{
				"app_uid": "case-1",
				"app_number": 42,
				"app_title": "Expediente 42",
				"app_status": "TO_DO",
				"pro_uid": "proc-1",
				"app_pro_title": "Autorización",
				"app_tas_title": "Revisión",
				"usr_uid": "user-1",
				"usr_firstname": "María",
				"usr_lastname": "Gómez",
				"app_create_date": "2026-08-01 10:30:00",
				"app_update_date": "2026-08-02 09:00:00",
				"del_task_due_date": "2026-08-10 00:00:00",
				"app_thread_status": "OPEN"
			}]`))
		}))

		records, err := client.FetchCases(context.Background(), "tok-123")

		require.NoError(t, err)
		require.Len(t, records, 1)
		got := records[0]
		require.Equal(t, "case-1", got.ID)
		require.Equal(t, "42", got.Number)
		require.Equal(t, model.StatusToDo, got.Status)
		require.Equal(t, "Autorización", got.ProcessTitle)
		require.Equal(t, "María Gómez", got.AssignedUserName)
		require.Equal(t, time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC), got.CreatedAt)
		require.Nil(t, got.FinishedAt)
	})

	t.Run("401 maps to session expired", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"token expired","code":401}}`))
		}))

		_, err := client.FetchCases(context.Background(), "stale")
		require.ErrorIs(t, err, model.ErrSessionExpired)
		require.Contains(t, err.Error(), "token expired")
	})

	t.Run("404 maps to misconfiguration", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.NotFound(w, nil)
		}))

		_, err := client.FetchCases(context.Background(), "tok")
		require.ErrorIs(t, err, model.ErrMisconfigured)
	})
}

func TestClientStartCase(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/1.0/osplyfc/processes/proc-1/cases", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "task-1", body["tas_uid"])

		_ = json.NewEncoder(w).Encode(map[string]any{"app_uid": "case-9", "app_number": "9"})
	}))

	caseID, err := client.StartCase(context.Background(), "tok", "proc-1", "task-1", map[string]any{"motivo": "reintegro"})

	require.NoError(t, err)
	require.Equal(t, "case-9", caseID)
}

func TestClientSearchCasesByProcess(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/1.0/osplyfc/cases/advanced-search/paged", r.URL.Path)
		require.Equal(t, "proc-1", r.URL.Query().Get("pro_uid"))
		require.Equal(t, "20", r.URL.Query().Get("start"))
		require.Equal(t, "10", r.URL.Query().Get("limit"))

		_, _ = w.Write([]byte(`{"total": 57, "data": [{"app_uid":"case-21","app_status":"COMPLETED"}]}`))
	}))

	records, total, err := client.SearchCasesByProcess(context.Background(), "tok", "proc-1", 20, 10)

	require.NoError(t, err)
	require.Equal(t, 57, total)
	require.Len(t, records, 1)
	require.Equal(t, model.StatusCompleted, records[0].Status)
}
