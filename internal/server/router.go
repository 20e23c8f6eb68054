package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/strata-bio/pubgraph/internal/api"
	"github.com/strata-bio/pubgraph/internal/api/handlers"
	"github.com/strata-bio/pubgraph/internal/api/middleware"
)

type RouterConfig struct {
	IngestHandler *handlers.IngestHandler
	AskHandler    *handlers.AskHandler
	GraphHandler  *handlers.GraphHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/metadata", cfg.IngestHandler.Metadata)
	r.Post("/ingest", cfg.IngestHandler.Ingest)
	r.Get("/ingest/runs", cfg.IngestHandler.ListRuns)
	r.Post("/clear", cfg.IngestHandler.Clear)

	r.Post("/ask", cfg.AskHandler.Ask)
	r.Post("/network", cfg.GraphHandler.Network)

	return r
}
