package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bioretention/internal/store"
)

var (
	runsDB    string
	runsLimit int
)

// runsCmd lists recorded runs
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs recorded in the history database",
	Args:  cobra.NoArgs,
	RunE:  listRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsDB, "db", "", "History database (default: store.path)")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Show at most this many runs (0 for all)")
}

func listRuns(cmd *cobra.Command, args []string) error {
	path := runsDB
	if path == "" {
		path = cfg.Store.Path
	}
	out := cmd.OutOrStdout()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(out, "No runs recorded (%s does not exist)\n", path)
		return nil
	}

	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(context.Background(), runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %s  sites %d/%d  paired %d  dropped %d  forecast %d\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.ID, r.Workbook,
			r.SitesBefore, r.SitesAfter, r.Paired, r.DroppedRows, r.ForecastYear)
	}
	return nil
}
