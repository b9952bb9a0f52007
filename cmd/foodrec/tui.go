package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"foodrec/internal/logging"
	"foodrec/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive recommendations",
	Long: `Start the terminal interface. Enter submits, Tab switches between query
and recipe mode, and the arrow keys move through results. Logs are discarded
unless --log-file or log.file is set.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime(logging.NewForTerminal)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	svc, summary, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	if err := svc.IngestCatalog(cmd.Context()); err != nil {
		return err
	}
	m := tui.New(cmd.Context(), svc, summary)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
