package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"foodrec/internal/config"
)

var (
	// cfgPath overrides config discovery
	cfgPath string
	// verbose forces debug logging
	verbose bool
	// jsonOutput prints query and recipe results as JSON
	jsonOutput bool
	// logFile overrides log.file from the config
	logFile string
)

// loggerFactory builds the logger for a command.
type loggerFactory func(cfg config.LogConfig, verbose bool) (*zap.Logger, error)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "foodrec",
	Short: "Food recommendations from free text or a recipe document",
	Long: `foodrec ranks a food catalog by semantic similarity.

Examples:
  # Recommend dishes for a free-text craving
  foodrec query something spicy and vegetarian

  # Recommend dishes sharing ingredients with a recipe
  foodrec recipe ./lasagna.pdf

  # Interactive mode
  foodrec tui`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (defaults to ./config.yaml or ~/.config/foodrec/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr (the tui only logs when set)")
}

// loadRuntime reads .env and the config, and builds the logger with newLogger.
func loadRuntime(newLogger loggerFactory) (*config.AppConfig, *zap.Logger, error) {
	_ = godotenv.Load()

	var (
		cfg *config.AppConfig
		err error
	)
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	logger, err := newLogger(cfg.Log, verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, logger, nil
}
