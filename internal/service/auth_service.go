package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-expediente-dashboard/internal/engine"
	"go-expediente-dashboard/internal/model"
	"go-expediente-dashboard/pkg/apierror"
)

// defaultPermissions mirrors what the engine grants every dashboard user;
// the /user endpoint does not expose the permission list directly.
var defaultPermissions = []string{"PM_LOGIN", "PM_CASES"}

// AuthService owns the engine session lifecycle: it exchanges credentials
// for an engine token, keeps the session store as the single source of
// truth, and issues the gateway's own signed token for the browser.
type AuthService struct {
	engine    *engine.Client
	sessions  SessionStore
	jwtSecret []byte
	now       func() time.Time
}

// SessionStore is the slice of the session cell the auth service relies on.
type SessionStore interface {
	Set(ctx context.Context, sess model.Session) error
	Clear(ctx context.Context)
	Current() *model.Session
	Token() (string, bool)
	Valid() bool
	Restore(ctx context.Context)
}

func NewAuthService(engineClient *engine.Client, sessions SessionStore, jwtSecret string) *AuthService {
	return &AuthService{
		engine:    engineClient,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// Authenticate logs in against the engine, installs the session and returns
// it together with a signed gateway token for the browser.
func (s *AuthService) Authenticate(ctx context.Context, username string, password string) (model.Session, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.Session{}, "", apierror.BadRequest("username and password are required", "")
	}

	token, expiresIn, err := s.engine.Login(ctx, username, password)
	if err != nil {
		return model.Session{}, "", err
	}

	sess := model.Session{
		Username:    username,
		DisplayName: username,
		Token:       token,
		TokenExpiry: s.now().Add(expiresIn),
		Permissions: defaultPermissions,
	}

	// Identity enrichment is best-effort: some engine versions hide /user,
	// and a login without a display name is still a login.
	if profile, err := s.engine.CurrentUser(ctx, token); err != nil {
		slog.Warn("could not fetch user profile, using credentials identity", "username", username, "error", err)
	} else {
		sess.UserID = profile.ID
		if profile.Username != "" {
			sess.Username = profile.Username
		}
		if name := strings.TrimSpace(profile.FirstName + " " + profile.LastName); name != "" {
			sess.DisplayName = name
		}
	}
	if sess.UserID == "" {
		sess.UserID = username
	}

	if err := s.sessions.Set(ctx, sess); err != nil {
		return model.Session{}, "", err
	}

	gatewayToken, err := s.issueToken(sess)
	if err != nil {
		return model.Session{}, "", fmt.Errorf("sign gateway token: %w", err)
	}

	slog.Info("authenticated against engine", "username", sess.Username, "expires", sess.TokenExpiry)
	return sess, gatewayToken, nil
}

// Logout revokes the engine token best-effort and always clears the local
// session. It never fails.
func (s *AuthService) Logout(ctx context.Context) {
	if token, ok := s.sessions.Token(); ok {
		if err := s.engine.Revoke(ctx, token); err != nil {
			slog.Warn("remote token revocation failed, clearing session anyway", "error", err)
		}
	}

	s.sessions.Clear(ctx)
}

func (s *AuthService) IsAuthenticated() bool {
	return s.sessions.Valid()
}

// RestoreSession resumes any persisted session at startup. Safe to call
// repeatedly; expired or malformed state is discarded silently.
func (s *AuthService) RestoreSession(ctx context.Context) {
	s.sessions.Restore(ctx)
}

func (s *AuthService) CurrentUser() (model.SessionUser, error) {
	sess := s.sessions.Current()
	if !sess.Valid(s.now()) {
		return model.SessionUser{}, model.ErrNoSession
	}

	return model.SessionUser{
		ID:          sess.UserID,
		Username:    sess.Username,
		DisplayName: sess.DisplayName,
	}, nil
}

func (s *AuthService) issueToken(sess model.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":      sess.UserID,
		"username": sess.Username,
		"name":     sess.DisplayName,
		"jti":      uuid.NewString(),
		"iat":      s.now().Unix(),
		"exp":      sess.TokenExpiry.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken checks a gateway token and that the engine session it was
// issued for is still the active one.
func (s *AuthService) ValidateToken(tokenString string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.Unauthorized("invalid token signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.Unauthorized("invalid token")
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Unauthorized("invalid token claims")
	}

	claims := &model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Username, _ = claimsMap["username"].(string)
	claims.DisplayName, _ = claimsMap["name"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, apierror.Unauthorized("invalid token subject")
	}

	sess := s.sessions.Current()
	if !sess.Valid(s.now()) || sess.UserID != claims.UserID {
		return nil, fmt.Errorf("gateway token for inactive session: %w", model.ErrSessionExpired)
	}

	return claims, nil
}
