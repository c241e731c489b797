package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go-expediente-dashboard/internal/model"
)

const (
	AuthModeLogin  = "login"
	AuthModeOAuth2 = "oauth2"
)

type Config struct {
	BaseURL      string
	Workspace    string
	AuthMode     string
	ClientID     string
	ClientSecret string
	Scope        string
	Timeout      time.Duration
	Location     *time.Location
}

// Client talks to a ProcessMaker-style BPM engine over its REST API. The
// client is stateless; callers pass the bearer token of the active session.
type Client struct {
	http *http.Client
	cfg  Config
	loc  *time.Location
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &Client{
		http: &http.Client{Timeout: timeout},
		cfg:  cfg,
		loc:  loc,
	}
}

// apiURL builds {base}/api/1.0/{workspace}{path}.
func (c *Client) apiURL(path string) string {
	return fmt.Sprintf("%s/api/1.0/%s%s", c.cfg.BaseURL, c.cfg.Workspace, path)
}

// workspaceURL builds {base}/{workspace}{path} for the OAuth endpoints that
// live outside the versioned API prefix.
func (c *Client) workspaceURL(path string) string {
	return fmt.Sprintf("%s/%s%s", c.cfg.BaseURL, c.cfg.Workspace, path)
}

// Login exchanges credentials for an access token, using either the direct
// login endpoint or the OAuth2 password grant depending on configuration.
// A 401 here means bad credentials, not an expired session.
func (c *Client) Login(ctx context.Context, username string, password string) (string, time.Duration, error) {
	var (
		endpoint string
		body     map[string]string
	)

	switch c.cfg.AuthMode {
	case AuthModeOAuth2:
		endpoint = c.workspaceURL("/oauth2/token")
		body = map[string]string{
			"grant_type":    "password",
			"scope":         c.cfg.Scope,
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"username":      username,
			"password":      password,
		}
	default:
		endpoint = c.apiURL("/login")
		body = map[string]string{
			"username":   username,
			"password":   password,
			"grant_type": "password",
		}
	}

	var parsed rawLoginResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, "", body, &parsed); err != nil {
		if statusOf(err) == http.StatusUnauthorized {
			return "", 0, fmt.Errorf("login: %w", model.ErrInvalidCredentials)
		}
		return "", 0, err
	}

	if parsed.AccessToken == "" {
		return "", 0, fmt.Errorf("login: engine returned empty access token")
	}

	expires := time.Duration(parsed.ExpiresIn) * time.Second
	if expires <= 0 {
		expires = time.Hour
	}

	return parsed.AccessToken, expires, nil
}

// Revoke invalidates the token remotely. Callers treat failures as
// non-fatal; logout always succeeds locally.
func (c *Client) Revoke(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	return c.doJSON(ctx, http.MethodPost, c.workspaceURL("/oauth2/revoke"), token, body, nil)
}

// CurrentUser fetches the identity of the token's owner.
func (c *Client) CurrentUser(ctx context.Context, token string) (UserProfile, error) {
	var parsed rawUser
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/user"), token, nil, &parsed); err != nil {
		return UserProfile{}, err
	}

	return UserProfile{
		ID:        parsed.UID,
		Username:  parsed.Username,
		FirstName: parsed.FirstName,
		LastName:  parsed.LastName,
		Email:     parsed.Email,
	}, nil
}

// FetchCases returns the caller's full case list, normalized.
func (c *Client) FetchCases(ctx context.Context, token string) ([]model.CaseRecord, error) {
	var parsed []rawCase
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/cases"), token, nil, &parsed); err != nil {
		return nil, err
	}

	return normalizeCases(parsed, c.loc), nil
}

// SearchCasesByProcess queries the server-side paged search, for windows the
// cached snapshot cannot answer.
func (c *Client) SearchCasesByProcess(ctx context.Context, token string, processID string, start int, limit int) ([]model.CaseRecord, int, error) {
	query := url.Values{}
	query.Set("pro_uid", processID)
	query.Set("start", strconv.Itoa(start))
	query.Set("limit", strconv.Itoa(limit))
	endpoint := c.apiURL("/cases/advanced-search/paged") + "?" + query.Encode()

	var parsed rawPagedCases
	if err := c.doJSON(ctx, http.MethodGet, endpoint, token, nil, &parsed); err != nil {
		return nil, 0, err
	}

	return normalizeCases(parsed.Data, c.loc), parsed.Total, nil
}

// FetchProcesses lists the workflow definitions available to the user.
func (c *Client) FetchProcesses(ctx context.Context, token string) ([]model.Process, error) {
	var parsed []rawProcess
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/processes"), token, nil, &parsed); err != nil {
		return nil, err
	}

	processes := make([]model.Process, 0, len(parsed))
	for _, p := range parsed {
		processes = append(processes, model.Process{
			ID:          p.UID,
			Title:       p.Title,
			Description: p.Description,
		})
	}

	return processes, nil
}

// ProcessTasks lists the named steps of one process definition.
func (c *Client) ProcessTasks(ctx context.Context, token string, processID string) ([]model.ProcessTask, error) {
	endpoint := c.apiURL("/processes/" + url.PathEscape(processID) + "/tasks")

	var parsed []rawTask
	if err := c.doJSON(ctx, http.MethodGet, endpoint, token, nil, &parsed); err != nil {
		return nil, err
	}

	tasks := make([]model.ProcessTask, 0, len(parsed))
	for _, t := range parsed {
		tasks = append(tasks, model.ProcessTask{ID: t.UID, Title: t.Title})
	}

	return tasks, nil
}

// StartCase creates a new case instance and returns its id.
func (c *Client) StartCase(ctx context.Context, token string, processID string, taskID string, variables map[string]any) (string, error) {
	endpoint := c.apiURL("/processes/" + url.PathEscape(processID) + "/cases")

	body := map[string]any{}
	if taskID != "" {
		body["tas_uid"] = taskID
	}
	if len(variables) > 0 {
		body["variables"] = []map[string]any{variables}
	}

	var parsed rawStartCaseResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, token, body, &parsed); err != nil {
		return "", err
	}
	if parsed.AppUID == "" {
		return "", fmt.Errorf("start case: engine returned no case id")
	}

	return parsed.AppUID, nil
}

// CaseVariables reads the process variables of one case.
func (c *Client) CaseVariables(ctx context.Context, token string, caseID string) (map[string]any, error) {
	endpoint := c.apiURL("/cases/" + url.PathEscape(caseID) + "/variables")

	var parsed map[string]any
	if err := c.doJSON(ctx, http.MethodGet, endpoint, token, nil, &parsed); err != nil {
		return nil, err
	}

	return parsed, nil
}

// UpdateCaseVariables replaces variables on a case.
func (c *Client) UpdateCaseVariables(ctx context.Context, token string, caseID string, variables map[string]any) error {
	endpoint := c.apiURL("/cases/" + url.PathEscape(caseID) + "/variables")
	return c.doJSON(ctx, http.MethodPut, endpoint, token, variables, nil)
}

// RouteCase derives a case to its next task, optionally to a specific user.
func (c *Client) RouteCase(ctx context.Context, token string, caseID string, taskID string, userID string) error {
	endpoint := c.apiURL("/cases/" + url.PathEscape(caseID) + "/route-case")

	body := map[string]string{}
	if taskID != "" {
		body["tas_uid"] = taskID
	}
	if userID != "" {
		body["usr_uid"] = userID
	}

	return c.doJSON(ctx, http.MethodPut, endpoint, token, body, nil)
}

func (c *Client) doJSON(ctx context.Context, method string, endpoint string, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", model.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", model.ErrServiceUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		return mapStatus(resp.StatusCode, payload)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode engine response: %w", err)
	}

	return nil
}

// statusError carries the raw HTTP status so login can distinguish a 401
// (bad credentials) from the generic session-expired mapping.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func statusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	return 0
}

// mapStatus folds engine HTTP errors into the gateway's error taxonomy:
// 401 session expired, 403/404 misconfiguration, 5xx unavailable, anything
// else surfaces the raw status and engine message.
func mapStatus(status int, payload []byte) error {
	detail := engineMessage(payload)

	var base error
	switch {
	case status == http.StatusUnauthorized:
		base = model.ErrSessionExpired
	case status == http.StatusForbidden || status == http.StatusNotFound:
		base = model.ErrMisconfigured
	case status >= 500:
		base = model.ErrServiceUnavailable
	default:
		if detail == "" {
			detail = http.StatusText(status)
		}
		return &statusError{status: status, err: fmt.Errorf("engine returned status %d: %s", status, detail)}
	}

	if detail != "" {
		return &statusError{status: status, err: fmt.Errorf("%w: %s", base, detail)}
	}
	return &statusError{status: status, err: fmt.Errorf("%w: status %d", base, status)}
}

func engineMessage(payload []byte) string {
	var parsed rawErrorBody
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return ""
	}
	return parsed.Error.Message
}
