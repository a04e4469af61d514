package main

import (
	"fmt"
	"os"

	"brewboard/internal/ui/preferences"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "Brewboard"

var (
	verbose     bool
	catalogPath string
	columnCount int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "brewboard",
	Short: "Multi-column tea brewing timer",
	Long: `Brewboard shows independent brewing columns side by side. Pick a tea and
a type in a column, press Start, then tap each stage to start, pause,
resume and dismiss its countdown.

Run without arguments to open the board.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBoard,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog file (YAML or JSON); defaults to the settings value or the built-in catalog")
	rootCmd.Flags().IntVar(&columnCount, "columns", 0, "number of columns to show")

	rootCmd.AddCommand(catalogCmd, brewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyFlags overrides persisted settings with explicitly set flags.
func applyFlags(cmd *cobra.Command, settings *preferences.Settings) {
	if cmd.Flags().Changed("catalog") {
		settings.CatalogPath = catalogPath
	}
	if cmd.Flags().Changed("columns") {
		settings.Columns = preferences.ClampColumns(columnCount)
	}
}
