//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-expediente-dashboard/internal/catalog"
	"go-expediente-dashboard/internal/config"
	"go-expediente-dashboard/internal/engine"
	"go-expediente-dashboard/internal/event"
	"go-expediente-dashboard/internal/handler"
	"go-expediente-dashboard/internal/middleware"
	"go-expediente-dashboard/internal/retry"
	"go-expediente-dashboard/internal/router"
	"go-expediente-dashboard/internal/service"
	"go-expediente-dashboard/internal/session"
	"go-expediente-dashboard/internal/websocket"
)

// newFakeEngine serves just enough of the BPM engine REST API for the
// gateway to log in and pull a worklist.
func newFakeEngine(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/1.0/osplyfc/login", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["username"] != "admin" || payload["password"] != "admin123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "engine-token", "expires_in": 3600})
	})
	mux.HandleFunc("GET /api/1.0/osplyfc/user", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"usr_uid":       "usr-001",
			"usr_username":  "admin",
			"usr_firstname": "Admin",
			"usr_lastname":  "User",
		})
	})
	mux.HandleFunc("GET /api/1.0/osplyfc/cases", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer engine-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"app_uid":           "case-1",
				"app_number":        "101",
				"app_title":         "#101",
				"app_status":        "TO_DO",
				"pro_uid":           "proc-1",
				"app_pro_title":     "Autorización Médica",
				"app_create_date":   time.Now().Add(-2 * time.Hour).Format("2006-01-02 15:04:05"),
				"del_task_due_date": time.Now().Add(-time.Hour).Format("2006-01-02 15:04:05"),
			},
			{
				"app_uid":         "case-2",
				"app_number":      "102",
				"app_title":       "#102",
				"app_status":      "COMPLETED",
				"pro_uid":         "proc-2",
				"app_pro_title":   "Reintegros",
				"app_create_date": time.Now().Add(-26 * time.Hour).Format("2006-01-02 15:04:05"),
				"app_finish_date": time.Now().Add(-time.Hour).Format("2006-01-02 15:04:05"),
			},
		})
	})
	mux.HandleFunc("POST /osplyfc/oauth2/revoke", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newGatewayServer(t *testing.T, engineURL string) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
		JWTSecret:        "test-secret",
		CacheTTL:         5 * time.Minute,
	}

	engineClient := engine.NewClient(engine.Config{
		BaseURL:   engineURL,
		Workspace: "osplyfc",
		AuthMode:  engine.AuthModeLogin,
		Timeout:   2 * time.Second,
		Location:  time.UTC,
	})

	persister, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	bus := event.NewBus()
	sessions := session.NewStore(persister, bus)

	policy := retry.Policy{MaxAttempts: 1}
	classifier := catalog.NewClassifier(nil)

	authService := service.NewAuthService(engineClient, sessions, cfg.JWTSecret)
	caseService := service.NewCaseService(engineClient, engineClient, sessions, bus, cfg.CacheTTL, policy)
	statsService := service.NewStatsService(caseService, classifier, time.UTC)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	hub := websocket.NewHub(bus)
	go hub.Run()
	t.Cleanup(hub.Stop)

	server := httptest.NewServer(router.New(
		cfg,
		authMiddleware,
		handler.NewAuthHandler(authService),
		handler.NewCaseHandler(caseService),
		handler.NewProcessHandler(caseService),
		handler.NewStatsHandler(statsService),
		handler.NewCatalogHandler(),
		hub,
	))
	t.Cleanup(server.Close)
	return server
}

func login(t *testing.T, gatewayURL string, username string, password string) (*http.Response, string) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	resp, err := http.Post(gatewayURL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if resp.StatusCode != http.StatusOK {
		return resp, ""
	}

	var parsed struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Data.Token)
	return resp, parsed.Data.Token
}

func doAuthRequest(t *testing.T, method string, url string, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(nil))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeData(t *testing.T, body io.Reader, target any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}
