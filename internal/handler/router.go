package handler

import (
	"net/http"

	"github.com/awsl-project/dontcaught/internal/prefsync"
	"github.com/awsl-project/dontcaught/internal/service"
	"github.com/go-chi/chi/v5"
)

// RouterDeps are the components served by the HTTP API
type RouterDeps struct {
	Page   *prefsync.Page
	Backup *service.BackupService
	Auth   *AuthMiddleware
	Hub    *WebSocketHub
}

// NewRouter builds the settings API. /ws is outside the gzip group since
// the upgrade needs the raw connection; it takes its token from the query.
func NewRouter(deps RouterDeps) *chi.Mux {
	settingsHandler := NewSettingsHandler(deps.Page)
	backupHandler := NewBackupHandler(deps.Backup)
	authHandler := NewAuthHandler(deps.Auth)

	r := chi.NewRouter()
	r.Use(LoggingMiddleware)
	r.Use(Recovery)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.With(deps.Auth.Wrap).Get("/ws", deps.Hub.HandleWebSocket)

	r.Route("/api", func(api chi.Router) {
		api.Use(Compress)

		api.Post("/auth/verify", authHandler.Verify)
		api.Get("/auth/status", authHandler.Status)

		api.Group(func(protected chi.Router) {
			protected.Use(deps.Auth.Wrap)

			protected.Get("/settings", settingsHandler.List)
			protected.Get("/settings/{key}", settingsHandler.Get)
			protected.Put("/settings/{key}", settingsHandler.Update)

			protected.Get("/backup/export", backupHandler.Export)
			protected.Post("/backup/import", backupHandler.Import)
		})
	})

	return r
}
