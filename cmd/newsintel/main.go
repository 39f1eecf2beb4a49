package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"NewsIntel/internal/app"
	"NewsIntel/internal/config"
	"NewsIntel/internal/logging"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "newsintel",
		Short:   "Daily AI news curation pipeline",
		Long:    "newsintel collects daily news, removes near-duplicate coverage, classifies business relevance, and emits curated notifications.",
		Version: version,
	}
	root.AddCommand(runCmd(), scheduleCmd())
	return root
}

func newApplication() (*app.Application, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	return app.New(cfg, logger)
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute a single pipeline run over yesterday's news",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication()
			if err != nil {
				return err
			}
			return application.RunOnce(cmd.Context())
		},
	}
}

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline daily at the configured time",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication()
			if err != nil {
				return err
			}
			return application.RunScheduled(cmd.Context())
		},
	}
}
