package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/strata-bio/pubgraph/internal/domain"
)

// ChunkIndexRepository is the vector index adapter backed by pgvector.
// The distance metric is cosine distance (`<=>`), consistent between
// insert and query; results are ordered ascending by distance with exact
// ties broken by insertion sequence.
type ChunkIndexRepository struct {
	db dbtx
}

func NewChunkIndexRepository(pool *pgxpool.Pool) *ChunkIndexRepository {
	return &ChunkIndexRepository{db: pool}
}

func NewChunkIndexRepositoryWithTx(tx pgx.Tx) *ChunkIndexRepository {
	return &ChunkIndexRepository{db: tx}
}

// ReplaceForArticle deletes an article's existing chunks and inserts the
// new set. Re-ingesting an article therefore never accumulates stale
// chunks from a longer previous abstract.
func (r *ChunkIndexRepository) ReplaceForArticle(ctx context.Context, articleID string, chunks []domain.Chunk) error {
	_, err := r.db.Exec(ctx, `DELETE FROM article_chunks WHERE article_id = $1`, articleID)
	if err != nil {
		return err
	}

	if len(chunks) == 0 {
		return nil
	}

	for _, c := range chunks {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		_, err := r.db.Exec(ctx,
			`INSERT INTO article_chunks (id, article_id, chunk_index, title, content, embedding, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, c.ArticleID, c.ChunkIndex, c.Title, c.Content, pgvector.NewVector(c.Embedding), createdAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// Search returns the topK nearest chunks to the query vector, ascending
// by cosine distance. topK <= 0 yields an empty result.
func (r *ChunkIndexRepository) Search(ctx context.Context, embedding []float32, topK int) ([]domain.ChunkMatch, error) {
	if topK <= 0 {
		return []domain.ChunkMatch{}, nil
	}

	vec := pgvector.NewVector(embedding)

	rows, err := r.db.Query(ctx,
		`SELECT id, article_id, title, content, (embedding <=> $1) AS distance
		 FROM article_chunks
		 ORDER BY embedding <=> $1, seq
		 LIMIT $2`,
		vec, topK,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]domain.ChunkMatch, 0, topK)
	for rows.Next() {
		var m domain.ChunkMatch
		if err := rows.Scan(&m.ChunkID, &m.ArticleID, &m.Title, &m.Content, &m.Distance); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *ChunkIndexRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM article_chunks`).Scan(&count)
	return count, err
}

// DeleteAll wipes the index.
func (r *ChunkIndexRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM article_chunks`)
	return err
}
