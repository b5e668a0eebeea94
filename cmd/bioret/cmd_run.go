package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bioretention/internal/pipeline"
)

var (
	runWatch        bool
	runDB           string
	runForecastYear int
	runDryRun       bool
)

// runCmd executes the pipeline
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Clean, pair and aggregate the workbook and write the CSV tables",
	Long: `Runs the full pipeline once and writes the five tables to the output
directory. With --watch the pipeline re-runs every time the workbook is saved.

Examples:
  bioret run --workbook assessments.xlsx --out results
  bioret run --db runs.db --forecast-year 2030
  bioret run --watch`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Re-run whenever the workbook changes")
	runCmd.Flags().StringVar(&runDB, "db", "", "Record the run in this SQLite database")
	runCmd.Flags().IntVar(&runForecastYear, "forecast-year", 0, "Forecast target year (overrides forecast.target_year)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Compute every table without writing anything")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	if runDB != "" {
		cfg.Store.Enabled = true
		cfg.Store.Path = runDB
	}
	opts := pipeline.Options{ForecastYear: runForecastYear, DryRun: runDryRun}

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	res, err := pipeline.Run(ctx, cfg, opts)
	if err != nil {
		if !runWatch {
			return err
		}
		fmt.Fprintf(out, "run failed: %v\n", err)
	} else {
		printRun(out, res)
	}
	if !runWatch {
		return nil
	}

	fmt.Fprintf(out, "watching %s (ctrl-c to stop)\n", cfg.Input.Workbook)
	return pipeline.Watch(ctx, cfg, opts, func(res *pipeline.Result, err error) {
		if err != nil {
			fmt.Fprintf(out, "run failed: %v\n", err)
			return
		}
		printRun(out, res)
	})
}

func printRun(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "run %s: %d/%d sites kept, %d paired, %d rows dropped\n",
		res.RunID, len(res.Before.Records), len(res.After.Records), len(res.Pairs), res.DroppedRows())
	for _, p := range res.Outputs {
		fmt.Fprintf(w, "  wrote %s\n", p)
	}
	if res.StoreDB != "" {
		fmt.Fprintf(w, "  recorded in %s\n", res.StoreDB)
	}
}
