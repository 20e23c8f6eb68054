package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/strata-bio/pubgraph/internal/domain"
)

// ArticleRepository is the metadata store adapter backed by Postgres.
// Articles are keyed by their external identifier and upserted with
// overwrite semantics so re-ingestion is idempotent.
type ArticleRepository struct {
	db dbtx
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{db: pool}
}

func NewArticleRepositoryWithTx(tx pgx.Tx) *ArticleRepository {
	return &ArticleRepository{db: tx}
}

const articleColumns = `id, title, authors, abstract, published_on, source, created_at, updated_at`

// Put upserts an article by id, replacing title, authors, date and
// abstract on conflict.
func (r *ArticleRepository) Put(ctx context.Context, a *domain.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO articles (id, title, authors, abstract, published_on, source, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			authors = EXCLUDED.authors,
			abstract = EXCLUDED.abstract,
			published_on = EXCLUDED.published_on,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at`,
		a.ID, a.Title, a.Authors, a.Abstract, a.PublishedOn, a.Source, createdAt, now,
	)
	return err
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)

	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, err
	}
	return a, nil
}

// GetByIDs returns the articles found for the given ids, keyed by id.
// Missing ids are silently omitted from the result.
func (r *ArticleRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Article, error) {
	result := make(map[string]*domain.Article, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result[a.ID] = a
	}
	return result, rows.Err()
}

func (r *ArticleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	return count, err
}

// List streams every stored article to fn in insertion order, stopping
// early if fn returns an error.
func (r *ArticleRepository) List(ctx context.Context, fn func(*domain.Article) error) error {
	rows, err := r.db.Query(ctx,
		`SELECT `+articleColumns+` FROM articles ORDER BY created_at, id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Clear removes every article. Chunks cascade with their owning rows.
func (r *ArticleRepository) Clear(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM articles`)
	return err
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var a domain.Article
	err := row.Scan(&a.ID, &a.Title, &a.Authors, &a.Abstract, &a.PublishedOn, &a.Source, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
