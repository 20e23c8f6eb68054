package service

import (
	"context"

	"github.com/strata-bio/pubgraph/internal/domain"
)

// Fetcher is the bibliographic source collaborator: it resolves a search
// term to article records.
type Fetcher interface {
	Search(ctx context.Context, term string, maxResults int) ([]*domain.Article, error)
}

// Embedder maps text to fixed-dimension vectors. Batch calls are
// order-preserving and return one vector per input.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer is the generation service collaborator.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ArticleStore is the metadata store adapter contract.
type ArticleStore interface {
	Put(ctx context.Context, a *domain.Article) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Article, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, fn func(*domain.Article) error) error
	Clear(ctx context.Context) error
}

// ChunkIndex is the vector index adapter contract. Search results are
// ordered ascending by distance, ties broken by insertion order.
type ChunkIndex interface {
	ReplaceForArticle(ctx context.Context, articleID string, chunks []domain.Chunk) error
	Search(ctx context.Context, embedding []float32, topK int) ([]domain.ChunkMatch, error)
	DeleteAll(ctx context.Context) error
}

// IngestRunStore records ingestion run history.
type IngestRunStore interface {
	Create(ctx context.Context, run *domain.IngestRun) error
}
