package model

import (
	"strings"
	"time"
)

type Group struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Session is the authenticated engine session. At most one exists per
// process; it lives in the session store and is persisted so a restart can
// resume without re-authenticating.
type Session struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Token       string    `json:"token"`
	TokenExpiry time.Time `json:"token_expiry"`
	Permissions []string  `json:"permissions,omitempty"`
	Groups      []Group   `json:"groups,omitempty"`
}

// Valid reports whether the session can still be used against the engine.
func (s *Session) Valid(now time.Time) bool {
	if s == nil {
		return false
	}
	return strings.TrimSpace(s.Token) != "" && now.Before(s.TokenExpiry)
}

func (s *Session) HasPermission(name string) bool {
	if s == nil {
		return false
	}
	for _, p := range s.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

type AuthClaims struct {
	UserID      string `json:"sub"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	TokenID     string `json:"jti"`
}

type SessionUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}
