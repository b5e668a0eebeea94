package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bioretention/internal/pipeline"
	"bioretention/internal/report"
)

var (
	reportRaw   bool
	reportFile  string
	reportWidth int
)

// summaryCmd prints the stewardship summary without writing files
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the summary by stewardship as a table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		res, err := pipeline.Run(ctx, cfg, pipeline.Options{DryRun: true})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(),
			report.SummaryTable(res.Summary, res.Before.Year, res.After.Year, cfg.Output.Precision))
		return nil
	},
}

// reportCmd renders the run report
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a Markdown report of the assessment comparison",
	Long: `Runs the pipeline without writing tables and renders a report: sheet
statistics, dropped rows, the stewardship summary and feature changes.

Examples:
  bioret report
  bioret report --raw --file report.md`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print Markdown without terminal styling")
	reportCmd.Flags().StringVar(&reportFile, "file", "", "Also write the Markdown to this file")
	reportCmd.Flags().IntVar(&reportWidth, "width", 100, "Wrap width for styled output")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	res, err := pipeline.Run(ctx, cfg, pipeline.Options{DryRun: true})
	if err != nil {
		return err
	}
	md := report.Markdown(res, cfg.Output.Precision)

	if reportFile != "" {
		if err := os.WriteFile(reportFile, []byte(md), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if reportRaw {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}
	rendered, err := report.Render(md, reportWidth)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}
