package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"foodrec/internal/logging"
)

const recipePrompt = "Enter the path to the recipe PDF: "

var recipeCmd = &cobra.Command{
	Use:   "recipe [path]",
	Short: "Recommend dishes that share ingredients with a recipe document",
	Long: `Extract the ingredient list from a recipe PDF or text file and rank the
catalog by ingredient similarity. Without a path argument the path is read
from standard input.

Examples:
  foodrec recipe ./lasagna.pdf
  foodrec recipe`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecipe,
}

func init() {
	rootCmd.AddCommand(recipeCmd)
}

// promptPath writes the prompt to w and reads one line from r.
func promptPath(r io.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, recipePrompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	path := strings.TrimSpace(line)
	if path == "" {
		return "", errors.New("recipe path is required")
	}
	return path, nil
}

func runRecipe(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		p, err := promptPath(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		path = p
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
	rec, err := svc.RecommendForDocument(cmd.Context(), path)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), rec)
	}
	printDocument(cmd.OutOrStdout(), rec)
	return nil
}
