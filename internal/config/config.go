package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthModeLogin  = "login"
	AuthModeOAuth2 = "oauth2"

	DataSourceDirect  = "direct"
	DataSourceWebhook = "webhook"

	SessionStoreFile     = "file"
	SessionStorePostgres = "postgres"
)

type Config struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration
	CORSOrigins        []string
	RateLimitRPM       int
	AuthRateLimitRPM   int

	JWTSecret string

	EngineBaseURL   string
	EngineWorkspace string
	EngineTimezone  string
	EngineTimeout   time.Duration

	AuthMode          string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthScope        string

	CacheTTL      time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	RefreshSpec   string

	DataSource      string
	WebhookURL      string
	WebhookFallback bool

	SessionStore string
	SessionFile  string
	DatabaseURL  string
	DBMaxConns   int32
	DBMinConns   int32

	MedicalKeywords        []string
	AdministrativeKeywords []string
	LegalKeywords          []string
	BillingKeywords        []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:       getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:   getInt("AUTH_RATE_LIMIT_RPM", 10),

		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),

		EngineBaseURL:   strings.TrimRight(strings.TrimSpace(os.Getenv("ENGINE_BASE_URL")), "/"),
		EngineWorkspace: strings.TrimSpace(os.Getenv("ENGINE_WORKSPACE")),
		EngineTimezone:  getEnv("ENGINE_TIMEZONE", "America/Argentina/Buenos_Aires"),
		EngineTimeout:   getDuration("ENGINE_TIMEOUT", 20*time.Second),

		AuthMode:          strings.ToLower(getEnv("AUTH_MODE", AuthModeLogin)),
		OAuthClientID:     strings.TrimSpace(os.Getenv("OAUTH_CLIENT_ID")),
		OAuthClientSecret: strings.TrimSpace(os.Getenv("OAUTH_CLIENT_SECRET")),
		OAuthScope:        getEnv("OAUTH_SCOPE", "*"),

		CacheTTL:      getDuration("CACHE_TTL", 5*time.Minute),
		RetryAttempts: getInt("RETRY_ATTEMPTS", 3),
		RetryDelay:    getDuration("RETRY_DELAY", time.Second),
		RefreshSpec:   getEnv("REFRESH_CRON", "@every 5m"),

		DataSource:      strings.ToLower(getEnv("DATA_SOURCE", DataSourceDirect)),
		WebhookURL:      strings.TrimSpace(os.Getenv("WEBHOOK_URL")),
		WebhookFallback: getBool("WEBHOOK_FALLBACK", true),

		SessionStore: strings.ToLower(getEnv("SESSION_STORE", SessionStoreFile)),
		SessionFile:  getEnv("SESSION_FILE", "./state/session.json"),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:   int32(getInt("DB_MAX_CONNS", 4)),
		DBMinConns:   int32(getInt("DB_MIN_CONNS", 1)),

		MedicalKeywords:        splitCSV(strings.TrimSpace(os.Getenv("CLASSIFIER_MEDICAL_KEYWORDS"))),
		AdministrativeKeywords: splitCSV(strings.TrimSpace(os.Getenv("CLASSIFIER_ADMINISTRATIVE_KEYWORDS"))),
		LegalKeywords:          splitCSV(strings.TrimSpace(os.Getenv("CLASSIFIER_LEGAL_KEYWORDS"))),
		BillingKeywords:        splitCSV(strings.TrimSpace(os.Getenv("CLASSIFIER_BILLING_KEYWORDS"))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.EngineBaseURL == "" {
		return fmt.Errorf("ENGINE_BASE_URL is required")
	}

	if c.EngineWorkspace == "" {
		return fmt.Errorf("ENGINE_WORKSPACE is required")
	}

	if c.AuthMode != AuthModeLogin && c.AuthMode != AuthModeOAuth2 {
		return fmt.Errorf("AUTH_MODE must be %q or %q", AuthModeLogin, AuthModeOAuth2)
	}

	if c.AuthMode == AuthModeOAuth2 && (c.OAuthClientID == "" || c.OAuthClientSecret == "") {
		return fmt.Errorf("OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET are required in oauth2 mode")
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1")
	}

	switch c.DataSource {
	case DataSourceDirect:
	case DataSourceWebhook:
		if c.WebhookURL == "" {
			return fmt.Errorf("WEBHOOK_URL is required when DATA_SOURCE=webhook")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q", DataSourceDirect, DataSourceWebhook)
	}

	switch c.SessionStore {
	case SessionStoreFile:
		if strings.TrimSpace(c.SessionFile) == "" {
			return fmt.Errorf("SESSION_FILE cannot be empty")
		}
	case SessionStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when SESSION_STORE=postgres")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q", SessionStoreFile, SessionStorePostgres)
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
