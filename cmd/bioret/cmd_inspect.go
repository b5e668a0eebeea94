package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bioretention/internal/pipeline"
)

// inspectCmd shows how the workbook will be read
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List sheets, headers, detected features and their alignment",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	ins, err := pipeline.Inspect(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Workbook: %s\n", ins.Workbook)
	fmt.Fprintf(out, "Sheets:   %s\n\n", strings.Join(ins.Sheets, ", "))

	for _, s := range []pipeline.SheetInfo{ins.Before, ins.After} {
		fmt.Fprintf(out, "[%s] year %d: %d rows, %d kept, %d dropped\n",
			s.Name, s.Year, s.Rows, s.Kept, s.Stats.DroppedTotal())
		fmt.Fprintf(out, "  header:   %s\n", strings.Join(s.Header, " | "))
		fmt.Fprintf(out, "  features: %s\n", strings.Join(s.Features, ", "))
	}

	fmt.Fprintln(out, "\nAligned features:")
	if len(ins.Alignment.Pairs) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, p := range ins.Alignment.Pairs {
		fmt.Fprintf(out, "  %-24s %s -> %s\n", p.Name, p.Left, p.Right)
	}
	if len(ins.Alignment.LeftOnly) > 0 {
		fmt.Fprintf(out, "Only in %s: %s\n", ins.Before.Name, strings.Join(ins.Alignment.LeftOnly, ", "))
	}
	if len(ins.Alignment.RightOnly) > 0 {
		fmt.Fprintf(out, "Only in %s: %s\n", ins.After.Name, strings.Join(ins.Alignment.RightOnly, ", "))
	}
	return nil
}
