package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/strata-bio/pubgraph/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pubgraphd",
		Short: "PubGraph daemon and CLI",
		Long:  "PubGraph daemon for running the retrieval API server and managing the article corpus",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.IngestCmd())
	rootCmd.AddCommand(cli.ClearCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
