package jobs

import (
	"context"
	"log"
	"time"

	"github.com/strata-bio/pubgraph/internal/service"
)

// StaleTermSource lists search terms whose most recent ingestion is
// older than the cutoff, most stale first.
type StaleTermSource interface {
	StaleTerms(ctx context.Context, cutoff time.Time, limit int) ([]string, error)
}

// Ingester re-runs ingestion for a term.
type Ingester interface {
	Ingest(ctx context.Context, term string, maxResults int) (*service.IngestionSummary, error)
}

// RefreshWorker re-ingests previously used search terms so the index
// picks up newly published articles. Re-ingestion is idempotent, so a
// refresh that overlaps a manual run only costs redundant work.
type RefreshWorker struct {
	terms      StaleTermSource
	ingester   Ingester
	maxAge     time.Duration
	maxResults int
}

func NewRefreshWorker(terms StaleTermSource, ingester Ingester, maxAge time.Duration, maxResults int) *RefreshWorker {
	return &RefreshWorker{
		terms:      terms,
		ingester:   ingester,
		maxAge:     maxAge,
		maxResults: maxResults,
	}
}

// ProcessJobs refreshes at most one stale term per tick.
func (w *RefreshWorker) ProcessJobs(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-w.maxAge)
	terms, err := w.terms.StaleTerms(ctx, cutoff, 1)
	if err != nil {
		return err
	}
	if len(terms) == 0 {
		return nil
	}

	term := terms[0]
	summary, err := w.ingester.Ingest(ctx, term, w.maxResults)
	if err != nil {
		return err
	}

	log.Printf("refresh: term %q fetched=%d stored=%d chunks=%d failures=%d",
		term, summary.Fetched, summary.ArticlesStored, summary.ChunksIndexed, len(summary.Failures))
	return nil
}
