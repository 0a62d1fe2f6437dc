// Package main implements the mealmate CLI: the planner API server, the
// bundled record store and a terminal week view.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mealmate/internal/config"
	"mealmate/internal/logging"
)

var (
	// configPath is the optional YAML config file.
	configPath string
	// version information
	version = "dev"

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mealmate",
	Short: "Weekly meal planner",
	Long: `mealmate plans breakfasts, lunches and dinners for the week.

It serves a JSON API and web front end backed by a record store, and can run
that record store itself.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		l, err := logging.New(c.Log)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recordStoreCmd)
	rootCmd.AddCommand(weekCmd)
}
