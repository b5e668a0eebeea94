// Package report renders a pipeline run for people: a Markdown report and a
// terminal table of the stewardship summary.
package report

import (
	"fmt"
	"sort"
	"strings"

	"bioretention/internal/analysis"
	"bioretention/internal/assessment"
	"bioretention/internal/export"
	"bioretention/internal/pipeline"
)

var dropOrder = []assessment.DropReason{
	assessment.DropMissingID,
	assessment.DropInvalidScore,
	assessment.DropOutOfRange,
	assessment.DropDuplicate,
}

// Markdown builds the run report.
func Markdown(res *pipeline.Result, precision int) string {
	f := export.Formatter{Precision: precision}
	num := func(v float64) string {
		if s := f.Float(v); s != "" {
			return s
		}
		return "n/a"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Bioretention condition report %d to %d\n\n", res.Before.Year, res.After.Year)
	fmt.Fprintf(&sb, "- **Run:** `%s`\n", res.RunID)
	fmt.Fprintf(&sb, "- **Workbook:** `%s`\n", res.Workbook)
	fmt.Fprintf(&sb, "- **Started:** %s\n", res.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "- **Paired sites:** %d\n\n", len(res.Pairs))

	sb.WriteString("## Sheets\n\n")
	sb.WriteString("| Sheet | Year | Rows read | Kept | Dropped | Unknown stewardship |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, ds := range []*assessment.Dataset{res.Before, res.After} {
		fmt.Fprintf(&sb, "| %s | %d | %d | %d | %d | %d |\n",
			ds.Sheet, ds.Year, ds.Stats.RowsRead, ds.Stats.RowsKept,
			ds.Stats.DroppedTotal(), ds.Stats.UnknownStewardship)
	}
	sb.WriteString("\n")

	if res.DroppedRows() > 0 {
		sb.WriteString("### Dropped rows\n\n")
		for _, ds := range []*assessment.Dataset{res.Before, res.After} {
			for _, reason := range dropOrder {
				if n := ds.Stats.Dropped[reason]; n > 0 {
					fmt.Fprintf(&sb, "- %s: %d × `%s`\n", ds.Sheet, n, reason)
				}
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Summary by stewardship\n\n")
	sb.WriteString("| Stewardship | Paired | Mean before | Mean after | Mean change | Improved | Worsened | Stable | % improved |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, s := range res.Summary {
		fmt.Fprintf(&sb, "| %s | %d | %s | %s | %s | %d | %d | %d | %s |\n",
			s.Stewardship, s.Paired, num(s.MeanBefore), num(s.MeanAfter), num(s.MeanChange),
			s.Improved, s.Worsened, s.Stable, num(s.PctImproved))
	}
	sb.WriteString("\n")

	sb.WriteString("## Features\n\n")
	if len(res.Alignment.Pairs) == 0 {
		sb.WriteString("No feature columns matched between the two sheets.\n\n")
	} else {
		fmt.Fprintf(&sb, "Compared: %s\n\n", strings.Join(res.Alignment.Names(), ", "))
		writeTopChanges(&sb, res.FeatureChanges, num)
	}
	if len(res.Alignment.LeftOnly) > 0 {
		fmt.Fprintf(&sb, "Only in %s: %s\n\n", res.Before.Sheet, strings.Join(res.Alignment.LeftOnly, ", "))
	}
	if len(res.Alignment.RightOnly) > 0 {
		fmt.Fprintf(&sb, "Only in %s: %s\n\n", res.After.Sheet, strings.Join(res.Alignment.RightOnly, ", "))
	}

	if len(res.Outputs) > 0 {
		sb.WriteString("## Outputs\n\n")
		for _, p := range res.Outputs {
			fmt.Fprintf(&sb, "- `%s`\n", p)
		}
	}
	return sb.String()
}

// writeTopChanges lists the All rows of the feature changes, largest
// absolute mean change first.
func writeTopChanges(sb *strings.Builder, rows []analysis.FeatureChange, num func(float64) string) {
	var all []analysis.FeatureChange
	for _, r := range rows {
		if r.Stewardship == assessment.StewardshipAll {
			all = append(all, r)
		}
	}
	if len(all) == 0 {
		return
	}
	sort.SliceStable(all, func(i, j int) bool {
		return abs(all[i].MeanChange) > abs(all[j].MeanChange)
	})
	sb.WriteString("| Feature | Sites | Mean change | Improved | Worsened |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, r := range all {
		fmt.Fprintf(sb, "| %s | %d | %s | %d | %d |\n", r.Feature, r.Sites, num(r.MeanChange), r.Improved, r.Worsened)
	}
	sb.WriteString("\n")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
