package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go-expediente-dashboard/internal/model"
)

// WebhookSource fetches case data through an intermediary webhook (an n8n
// flow, typically) that mirrors the engine's /cases payload.
// When a fallback client is configured, transport failures degrade to the
// direct engine call so the dashboard keeps working while the intermediary
// is down.
type WebhookSource struct {
	url      string
	http     *http.Client
	fallback *Client
	loc      *time.Location
}

func NewWebhookSource(url string, timeout time.Duration, loc *time.Location, fallback *Client) *WebhookSource {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if loc == nil {
		loc = time.Local
	}

	return &WebhookSource{
		url:      url,
		http:     &http.Client{Timeout: timeout},
		fallback: fallback,
		loc:      loc,
	}
}

func (s *WebhookSource) FetchCases(ctx context.Context, token string) ([]model.CaseRecord, error) {
	records, err := s.fetch(ctx, token)
	if err == nil {
		return records, nil
	}

	if s.fallback != nil && errors.Is(err, model.ErrServiceUnavailable) {
		slog.Warn("webhook source unavailable, falling back to direct engine call", "error", err)
		return s.fallback.FetchCases(ctx, token)
	}

	return nil, err
}

func (s *WebhookSource) fetch(ctx context.Context, token string) ([]model.CaseRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", model.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, mapStatus(resp.StatusCode, nil)
	}

	var parsed []rawCase
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode webhook response: %w", err)
	}

	return normalizeCases(parsed, s.loc), nil
}
