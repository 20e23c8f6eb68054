package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/strata-bio/pubgraph/internal/domain"
)

// IngestRunRepository records one row per ingestion run. The history
// feeds the /ingest/runs endpoint and the background refresh worker.
type IngestRunRepository struct {
	pool *pgxpool.Pool
}

func NewIngestRunRepository(pool *pgxpool.Pool) *IngestRunRepository {
	return &IngestRunRepository{pool: pool}
}

func (r *IngestRunRepository) Create(ctx context.Context, run *domain.IngestRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO ingest_runs (id, term, requested, fetched, articles_stored, chunks_indexed, failure_count, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.Term, run.Requested, run.Fetched, run.ArticlesStored, run.ChunksIndexed, run.FailureCount, run.DurationMs, run.CreatedAt,
	)
	return err
}

func (r *IngestRunRepository) ListRecent(ctx context.Context, limit int) ([]*domain.IngestRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, term, requested, fetched, articles_stored, chunks_indexed, failure_count, duration_ms, created_at
		 FROM ingest_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.IngestRun
	for rows.Next() {
		var run domain.IngestRun
		if err := rows.Scan(&run.ID, &run.Term, &run.Requested, &run.Fetched, &run.ArticlesStored, &run.ChunksIndexed, &run.FailureCount, &run.DurationMs, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// StaleTerms returns search terms whose most recent run is older than the
// cutoff, most stale first. The refresh worker re-ingests these.
func (r *IngestRunRepository) StaleTerms(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 1
	}

	rows, err := r.pool.Query(ctx,
		`SELECT term FROM (
			SELECT term, MAX(created_at) AS last_run
			FROM ingest_runs
			GROUP BY term
		 ) t
		 WHERE last_run < $1
		 ORDER BY last_run
		 LIMIT $2`,
		cutoff, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}
