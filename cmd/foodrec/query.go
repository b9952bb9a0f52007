package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"foodrec/internal/logging"
)

var queryCmd = &cobra.Command{
	Use:   "query <text...>",
	Short: "Recommend dishes for a free-text query",
	Long: `Detect dietary or cuisine intent in the query, then rank the catalog by
similarity to it.

Examples:
  foodrec query vegan noodles
  foodrec query "something japanese" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return errors.New("query text is required")
	}
	cfg, logger, err := loadRuntime(logging.New)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	svc, _, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	rec, err := svc.RecommendForQuery(cmd.Context(), text)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), rec)
	}
	printQuery(cmd.OutOrStdout(), rec)
	return nil
}
