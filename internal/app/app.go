package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-expediente-dashboard/internal/catalog"
	"go-expediente-dashboard/internal/config"
	"go-expediente-dashboard/internal/database"
	"go-expediente-dashboard/internal/engine"
	"go-expediente-dashboard/internal/event"
	"go-expediente-dashboard/internal/handler"
	"go-expediente-dashboard/internal/jobs"
	"go-expediente-dashboard/internal/middleware"
	"go-expediente-dashboard/internal/retry"
	"go-expediente-dashboard/internal/router"
	"go-expediente-dashboard/internal/service"
	"go-expediente-dashboard/internal/session"
	"go-expediente-dashboard/internal/websocket"
)

type App struct {
	server       *http.Server
	refresher    *jobs.Refresher
	hub          *websocket.Hub
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.EngineTimezone)
	if err != nil {
		slog.Warn("unknown engine timezone, using local", "timezone", cfg.EngineTimezone)
		loc = time.Local
	}

	bus := event.NewBus()

	var cleanupFuncs []func()
	persister, cleanup, err := newPersister(cfg)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		cleanupFuncs = append(cleanupFuncs, cleanup)
	}

	sessions := session.NewStore(persister, bus)

	engineClient := engine.NewClient(engine.Config{
		BaseURL:      cfg.EngineBaseURL,
		Workspace:    cfg.EngineWorkspace,
		AuthMode:     cfg.AuthMode,
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		Scope:        cfg.OAuthScope,
		Timeout:      cfg.EngineTimeout,
		Location:     loc,
	})

	var source service.CaseSource = engineClient
	if cfg.DataSource == config.DataSourceWebhook {
		var fallback *engine.Client
		if cfg.WebhookFallback {
			fallback = engineClient
		}
		source = engine.NewWebhookSource(cfg.WebhookURL, cfg.EngineTimeout, loc, fallback)
		slog.Info("worklist source is webhook", "url", cfg.WebhookURL, "fallback", cfg.WebhookFallback)
	}

	policy := retry.Policy{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Retryable:   retry.IsTransient,
	}

	classifier := catalog.NewClassifier(map[catalog.Category][]string{
		catalog.CategoryMedical:        cfg.MedicalKeywords,
		catalog.CategoryAdministrative: cfg.AdministrativeKeywords,
		catalog.CategoryLegal:          cfg.LegalKeywords,
		catalog.CategoryBilling:        cfg.BillingKeywords,
	})

	authService := service.NewAuthService(engineClient, sessions, cfg.JWTSecret)
	caseService := service.NewCaseService(source, engineClient, sessions, bus, cfg.CacheTTL, policy)
	statsService := service.NewStatsService(caseService, classifier, loc)

	// Resume the persisted engine session so restarts do not force a login.
	authService.RestoreSession(context.Background())

	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)
	caseHandler := handler.NewCaseHandler(caseService)
	processHandler := handler.NewProcessHandler(caseService)
	statsHandler := handler.NewStatsHandler(statsService)
	catalogHandler := handler.NewCatalogHandler()

	hub := websocket.NewHub(bus)
	go hub.Run()

	refresher := jobs.NewRefresher(caseService, sessions, bus, loc, cfg.RefreshSpec)
	if err := refresher.Start(); err != nil {
		for _, fn := range cleanupFuncs {
			fn()
		}
		return nil, fmt.Errorf("failed to start background refresher: %w", err)
	}

	appRouter := router.New(cfg, authMiddleware, authHandler, caseHandler, processHandler, statsHandler, catalogHandler, hub)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		refresher:    refresher,
		hub:          hub,
		cleanupFuncs: cleanupFuncs,
	}, nil
}

// newPersister picks the session persistence backend. File keeps a single
// JSON document on disk; postgres keeps the same document in a one-row
// table so multiple replicas can share the engine session.
func newPersister(cfg *config.Config) (session.Persister, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := db.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}

		slog.Info("database ready")
		return session.NewPostgresStore(db.Pool), db.Close, nil
	default:
		store, err := session.NewFileStore(cfg.SessionFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize session file store: %w", err)
		}
		return store, nil, nil
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.refresher.Stop()
	a.hub.Stop()
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
