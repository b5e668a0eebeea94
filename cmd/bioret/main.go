package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bioretention/internal/config"
	"bioretention/internal/logging"
)

var (
	// Global flags
	cfgPath      string
	verbose      bool
	workbookPath string
	outDir       string

	// Resolved in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bioret",
	Short: "bioret - bioretention condition assessment pipeline",
	Long: `bioret compares two condition assessments of bioretention sites.

It reads one workbook holding an earlier and a later assessment sheet, cleans
both, pairs sites by GRI ID and writes five CSV tables: the combined dataset,
a per-site forecast, a summary by stewardship program, the condition score
distribution and a per-feature change summary.

Condition scores run from 1 (best) to 5 (worst).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if workbookPath != "" {
			loaded.Input.Workbook = workbookPath
		}
		if outDir != "" {
			loaded.Output.Dir = outDir
		}
		cfg = loaded

		logger, err = logging.Initialize(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		logging.Get(logging.CategoryBoot).Debugw("config resolved", "path", cfgPath, "workbook", cfg.Input.Workbook)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workbookPath, "workbook", "w", "", "Assessment workbook (overrides input.workbook)")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "Output directory (overrides output.dir)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logging.Get(logging.CategoryBoot).Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
