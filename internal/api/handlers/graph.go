package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/strata-bio/pubgraph/internal/api"
	"github.com/strata-bio/pubgraph/internal/domain"
)

type GraphService interface {
	Build(ctx context.Context, ids []string) (*domain.AuthorGraph, error)
}

type GraphHandler struct {
	svc GraphService
}

func NewGraphHandler(svc GraphService) *GraphHandler {
	return &GraphHandler{svc: svc}
}

type NetworkRequest struct {
	ArticleIDs []string `json:"article_ids"`
}

// Network builds the co-authorship graph. An empty body is equivalent to
// an empty article_ids list: the scope falls back to the last answer.
func (h *GraphHandler) Network(w http.ResponseWriter, r *http.Request) {
	var req NetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	graph, err := h.svc.Build(r.Context(), req.ArticleIDs)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, graph)
}
