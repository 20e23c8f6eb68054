package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/strata-bio/pubgraph/internal/config"
	"github.com/strata-bio/pubgraph/internal/database"
)

// IngestCmd returns the one-shot ingest command
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <term>",
		Short: "Fetch and index articles for a search term",
		Long:  "Fetch abstracts matching the search term, store their metadata and index their chunks, then exit",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}

	cmd.Flags().IntP("max-results", "n", 10, "Maximum number of articles to fetch")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	maxResults, _ := cmd.Flags().GetInt("max-results")

	deps := buildServices(cfg, pool)

	summary, err := deps.ingestion.Ingest(ctx, args[0], maxResults)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
