package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/strata-bio/pubgraph/internal/api"
	"github.com/strata-bio/pubgraph/internal/domain"
	"github.com/strata-bio/pubgraph/internal/service"
)

type IngestService interface {
	Ingest(ctx context.Context, term string, maxResults int) (*service.IngestionSummary, error)
	ClearAll(ctx context.Context) (service.ClearResult, error)
	MetadataSummary(ctx context.Context) (*service.MetadataSummary, error)
}

type IngestRunLister interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.IngestRun, error)
}

type IngestHandler struct {
	svc  IngestService
	runs IngestRunLister
}

func NewIngestHandler(svc IngestService, runs IngestRunLister) *IngestHandler {
	return &IngestHandler{svc: svc, runs: runs}
}

type IngestRequest struct {
	Term       string `json:"term"`
	MaxResults int    `json:"max_results"`
}

func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.svc.Ingest(r.Context(), req.Term, req.MaxResults)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, summary)
}

func (h *IngestHandler) Clear(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ClearAll(r.Context())
	if err != nil {
		api.HandleError(w, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "clear failed", err))
		return
	}

	api.Success(w, http.StatusOK, result)
}

func (h *IngestHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.MetadataSummary(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, summary)
}

type IngestRunResponse struct {
	ID             string `json:"id"`
	Term           string `json:"term"`
	Requested      int    `json:"requested"`
	Fetched        int    `json:"fetched"`
	ArticlesStored int    `json:"articles_stored"`
	ChunksIndexed  int    `json:"chunks_indexed"`
	FailureCount   int    `json:"failure_count"`
	DurationMs     int    `json:"duration_ms"`
	CreatedAt      string `json:"created_at"`
}

type IngestRunListResponse struct {
	Items []*IngestRunResponse `json:"items"`
}

func (h *IngestHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := h.runs.ListRecent(r.Context(), limit)
	if err != nil {
		api.HandleError(w, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "list ingest runs", err))
		return
	}

	items := make([]*IngestRunResponse, len(runs))
	for i, run := range runs {
		items[i] = &IngestRunResponse{
			ID:             run.ID,
			Term:           run.Term,
			Requested:      run.Requested,
			Fetched:        run.Fetched,
			ArticlesStored: run.ArticlesStored,
			ChunksIndexed:  run.ChunksIndexed,
			FailureCount:   run.FailureCount,
			DurationMs:     run.DurationMs,
			CreatedAt:      run.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	api.Success(w, http.StatusOK, IngestRunListResponse{Items: items})
}
