package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/strata-bio/pubgraph/internal/api"
	"github.com/strata-bio/pubgraph/internal/domain"
)

type AskService interface {
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}

type AskHandler struct {
	svc AskService
}

func NewAskHandler(svc AskService) *AskHandler {
	return &AskHandler{svc: svc}
}

type AskRequest struct {
	Question string `json:"question"`
}

type ContextChunkResponse struct {
	ChunkID   string   `json:"chunk_id"`
	ArticleID string   `json:"article_id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Content   string   `json:"content"`
	Distance  float64  `json:"distance"`
}

type AskResponse struct {
	Question   string                 `json:"question"`
	Answer     string                 `json:"answer"`
	Context    []ContextChunkResponse `json:"context"`
	ArticleIDs []string               `json:"article_ids"`
}

func answerToResponse(a *domain.Answer) *AskResponse {
	chunks := make([]ContextChunkResponse, len(a.Context))
	for i, c := range a.Context {
		chunks[i] = ContextChunkResponse{
			ChunkID:   c.ChunkID,
			ArticleID: c.ArticleID,
			Title:     c.Title,
			Authors:   c.Authors,
			Content:   c.Content,
			Distance:  c.Distance,
		}
	}
	return &AskResponse{
		Question:   a.Question,
		Answer:     a.Text,
		Context:    chunks,
		ArticleIDs: a.ArticleIDs,
	}
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.svc.Ask(r.Context(), req.Question)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, answerToResponse(answer))
}
