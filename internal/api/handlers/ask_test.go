package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/strata-bio/pubgraph/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAskService struct {
	mock.Mock
}

func (m *MockAskService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Answer), args.Error(1)
}

func TestAskHandler_Ask_Success(t *testing.T) {
	mockSvc := new(MockAskService)
	handler := NewAskHandler(mockSvc)

	answer := &domain.Answer{
		Question: "What does CRISPR do?",
		Text:     "CRISPR edits genomes.",
		Context: []domain.RetrievedChunk{
			{
				ChunkID:   "12345:0",
				ArticleID: "12345",
				Title:     "CRISPR basics",
				Authors:   []string{"Smith JA"},
				Content:   "CRISPR is a genome editing tool.",
				Distance:  0.12,
			},
		},
		ArticleIDs: []string{"12345"},
	}
	mockSvc.On("Ask", mock.Anything, "What does CRISPR do?").Return(answer, nil)

	body := `{"question":"What does CRISPR do?"}`
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data AskResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "CRISPR edits genomes.", envelope.Data.Answer)
	require.Len(t, envelope.Data.Context, 1)
	assert.Equal(t, "12345:0", envelope.Data.Context[0].ChunkID)
	assert.Equal(t, []string{"12345"}, envelope.Data.ArticleIDs)
	mockSvc.AssertExpectations(t)
}

func TestAskHandler_Ask_EmptyQuestion(t *testing.T) {
	mockSvc := new(MockAskService)
	handler := NewAskHandler(mockSvc)

	mockSvc.On("Ask", mock.Anything, "").Return(nil, domain.ErrEmptyQuestion)

	body := `{"question":""}`
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskHandler_Ask_InvalidBody(t *testing.T) {
	mockSvc := new(MockAskService)
	handler := NewAskHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Ask")
}

func TestAskHandler_Ask_GenerationUnavailable(t *testing.T) {
	mockSvc := new(MockAskService)
	handler := NewAskHandler(mockSvc)

	mockSvc.On("Ask", mock.Anything, "q").Return(nil, domain.ErrGenerationUnavailable)

	body := `{"question":"q"}`
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
