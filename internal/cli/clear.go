package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strata-bio/pubgraph/internal/config"
	"github.com/strata-bio/pubgraph/internal/database"
)

// ClearCmd returns the clear command
func ClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored articles and indexed chunks",
		RunE:  runClear,
	}

	cmd.Flags().BoolP("yes", "y", false, "Confirm deletion without prompting")

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return fmt.Errorf("refusing to clear without --yes")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	deps := buildServices(cfg, pool)

	result, err := deps.ingestion.ClearAll(ctx)
	if err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	fmt.Printf("metadata cleared: %v\nindex cleared: %v\n", result.MetadataCleared, result.IndexCleared)
	return nil
}
