package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-expediente-dashboard/internal/config"
	"go-expediente-dashboard/internal/handler"
	"go-expediente-dashboard/internal/middleware"
	"go-expediente-dashboard/internal/websocket"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	caseHandler *handler.CaseHandler,
	processHandler *handler.ProcessHandler,
	statsHandler *handler.StatsHandler,
	catalogHandler *handler.CatalogHandler,
	hub *websocket.Hub,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.With(authMiddleware.RequireAuth).Post("/logout", authHandler.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		api.Group(func(private chi.Router) {
			private.Use(authMiddleware.RequireAuth)

			private.Get("/cases", caseHandler.List)
			private.Get("/cases/recent", caseHandler.Recent)
			private.Get("/cases/{caseID}/variables", caseHandler.Variables)
			private.Put("/cases/{caseID}/variables", caseHandler.UpdateVariables)
			private.Post("/cases/{caseID}/route", caseHandler.Route)

			private.Get("/processes", processHandler.List)
			private.Get("/processes/{processID}/tasks", processHandler.Tasks)
			private.Get("/processes/{processID}/cases", caseHandler.Search)
			private.Post("/processes/{processID}/cases", caseHandler.Start)

			private.Get("/stats", statsHandler.Stats)
			private.Get("/stats/activity", statsHandler.Activity)
			private.Get("/stats/categories", statsHandler.Categories)
			private.Get("/stats/metrics", statsHandler.Metrics)

			private.Get("/catalog/expedientes", catalogHandler.Expedientes)

			private.Post("/cache/refresh", caseHandler.Refresh)

			private.Get("/events", func(w http.ResponseWriter, r *http.Request) {
				websocket.ServeWS(hub, w, r)
			})
		})
	})

	return r
}
