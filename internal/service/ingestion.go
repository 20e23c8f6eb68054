package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/strata-bio/pubgraph/internal/domain"
	"github.com/strata-bio/pubgraph/internal/telemetry"
)

// IngestFailure records one article that could not be fully indexed.
type IngestFailure struct {
	ArticleID string `json:"article_id"`
	Reason    string `json:"reason"`
}

// IngestionSummary reports the outcome of one ingestion run. Failures
// lists articles that were fetched but not fully indexed; their presence
// does not make the run itself a failure.
type IngestionSummary struct {
	Term           string          `json:"term"`
	Requested      int             `json:"requested"`
	Fetched        int             `json:"fetched"`
	ArticlesStored int             `json:"articles_stored"`
	ChunksIndexed  int             `json:"chunks_indexed"`
	Failures       []IngestFailure `json:"failures"`
}

// ClearResult reports the per-store outcome of a clear operation.
type ClearResult struct {
	MetadataCleared bool `json:"metadata_cleared"`
	IndexCleared    bool `json:"index_cleared"`
}

// IngestionConfig tunes the pipeline. MaxFetch caps any single request's
// max_results; BatchSize amortizes embedding calls and is a throughput
// knob, not a correctness one.
type IngestionConfig struct {
	MaxFetch  int
	Chunk     ChunkConfig
	BatchSize int
}

func DefaultIngestionConfig() IngestionConfig {
	return IngestionConfig{
		MaxFetch:  50,
		Chunk:     DefaultChunkConfig(),
		BatchSize: 16,
	}
}

// IngestionService orchestrates fetch, dedupe-by-id upsert, chunking,
// embedding and indexing per search term.
type IngestionService struct {
	fetcher  Fetcher
	articles ArticleStore
	index    ChunkIndex
	embedder Embedder
	runs     IngestRunStore
	cfg      IngestionConfig
}

func NewIngestionService(fetcher Fetcher, articles ArticleStore, index ChunkIndex, embedder Embedder, runs IngestRunStore, cfg IngestionConfig) *IngestionService {
	if cfg.MaxFetch <= 0 {
		cfg.MaxFetch = DefaultIngestionConfig().MaxFetch
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultIngestionConfig().BatchSize
	}
	return &IngestionService{
		fetcher:  fetcher,
		articles: articles,
		index:    index,
		embedder: embedder,
		runs:     runs,
		cfg:      cfg,
	}
}

// Ingest fetches up to maxResults articles for the term and indexes them.
// Articles without an abstract are stored but produce no chunks. A single
// article's embedding or index failure is recorded and the run continues;
// only validation and fetch errors abort the whole call.
func (s *IngestionService) Ingest(ctx context.Context, term string, maxResults int) (*IngestionSummary, error) {
	if strings.TrimSpace(term) == "" {
		return nil, domain.ErrEmptySearchTerm
	}
	if maxResults <= 0 {
		return nil, domain.ErrInvalidMaxResults
	}
	if maxResults > s.cfg.MaxFetch {
		maxResults = s.cfg.MaxFetch
	}

	ctx, span := telemetry.StartSpan(ctx, "IngestionService.Ingest", telemetry.SpanAttributes{
		Term:      term,
		Operation: "ingest",
	})
	defer span.End()

	start := time.Now()

	records, err := s.fetcher.Search(ctx, term, maxResults)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCollaborator, "bibliographic source unavailable", err)
	}

	summary := &IngestionSummary{
		Term:      term,
		Requested: maxResults,
		Fetched:   len(records),
		Failures:  []IngestFailure{},
	}

	for _, article := range records {
		if err := s.articles.Put(ctx, article); err != nil {
			summary.Failures = append(summary.Failures, IngestFailure{
				ArticleID: article.ID,
				Reason:    fmt.Sprintf("store article: %v", err),
			})
			continue
		}
		summary.ArticlesStored++

		indexed, err := s.indexArticle(ctx, article)
		if err != nil {
			summary.Failures = append(summary.Failures, IngestFailure{
				ArticleID: article.ID,
				Reason:    err.Error(),
			})
			continue
		}
		summary.ChunksIndexed += indexed
	}

	s.recordRun(ctx, summary, time.Since(start))
	return summary, nil
}

// indexArticle chunks, embeds and indexes one article's abstract,
// returning the number of chunks indexed.
func (s *IngestionService) indexArticle(ctx context.Context, article *domain.Article) (int, error) {
	if !article.HasAbstract() {
		return 0, nil
	}

	texts := ChunkAll(article.Abstract, s.cfg.Chunk)
	if len(texts) == 0 {
		return 0, nil
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for batchStart := 0; batchStart < len(texts); batchStart += s.cfg.BatchSize {
		batchEnd := batchStart + s.cfg.BatchSize
		if batchEnd > len(texts) {
			batchEnd = len(texts)
		}

		vectors, err := s.embedder.GenerateEmbeddings(ctx, texts[batchStart:batchEnd])
		if err != nil {
			return 0, fmt.Errorf("embed chunks: %w", err)
		}

		for i, vec := range vectors {
			idx := batchStart + i
			chunks = append(chunks, domain.Chunk{
				ID:         domain.ChunkID(article.ID, idx),
				ArticleID:  article.ID,
				ChunkIndex: idx,
				Title:      article.Title,
				Content:    texts[idx],
				Embedding:  vec,
			})
		}
	}

	if err := s.index.ReplaceForArticle(ctx, article.ID, chunks); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}
	return len(chunks), nil
}

func (s *IngestionService) recordRun(ctx context.Context, summary *IngestionSummary, elapsed time.Duration) {
	if s.runs == nil {
		return
	}
	run := &domain.IngestRun{
		Term:           summary.Term,
		Requested:      summary.Requested,
		Fetched:        summary.Fetched,
		ArticlesStored: summary.ArticlesStored,
		ChunksIndexed:  summary.ChunksIndexed,
		FailureCount:   len(summary.Failures),
		DurationMs:     int(elapsed.Milliseconds()),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		log.Printf("ingest: failed to record run for term %q: %v", summary.Term, err)
	}
}

// ClearAll wipes both stores unconditionally. Each store's clear is
// attempted regardless of the other's outcome; the result reports which
// succeeded and the returned error carries whatever failed.
func (s *IngestionService) ClearAll(ctx context.Context) (ClearResult, error) {
	var result ClearResult
	var errs []error

	if err := s.articles.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear metadata store: %w", err))
	} else {
		result.MetadataCleared = true
	}

	if err := s.index.DeleteAll(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear vector index: %w", err))
	} else {
		result.IndexCleared = true
	}

	return result, errors.Join(errs...)
}

// MetadataSummary reports the article count in the metadata store.
type MetadataSummary struct {
	ArticleCount int `json:"article_count"`
}

func (s *IngestionService) MetadataSummary(ctx context.Context) (*MetadataSummary, error) {
	count, err := s.articles.Count(ctx)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCollaborator, "metadata store unavailable", err)
	}
	return &MetadataSummary{ArticleCount: count}, nil
}
