package service

import (
	"context"

	"github.com/strata-bio/pubgraph/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Search(ctx context.Context, term string, maxResults int) ([]*domain.Article, error) {
	args := m.Called(ctx, term, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Article), args.Error(1)
}

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockArticleStore struct {
	mock.Mock
}

func (m *MockArticleStore) Put(ctx context.Context, a *domain.Article) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArticleStore) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleStore) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Article, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.Article), args.Error(1)
}

func (m *MockArticleStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockArticleStore) List(ctx context.Context, fn func(*domain.Article) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func (m *MockArticleStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockChunkIndex struct {
	mock.Mock
}

func (m *MockChunkIndex) ReplaceForArticle(ctx context.Context, articleID string, chunks []domain.Chunk) error {
	args := m.Called(ctx, articleID, chunks)
	return args.Error(0)
}

func (m *MockChunkIndex) Search(ctx context.Context, embedding []float32, topK int) ([]domain.ChunkMatch, error) {
	args := m.Called(ctx, embedding, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChunkMatch), args.Error(1)
}

func (m *MockChunkIndex) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockIngestRunStore struct {
	mock.Mock
}

func (m *MockIngestRunStore) Create(ctx context.Context, run *domain.IngestRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}
