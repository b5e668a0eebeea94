package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"bioretention/internal/analysis"
	"bioretention/internal/assessment"
	"bioretention/internal/export"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	totalStyle  = cellStyle.Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2a3850"))
)

// Render formats Markdown for the terminal. width <= 0 uses 80 columns.
func Render(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// SummaryTable draws the stewardship summary as a bordered table. The All
// row is bold.
func SummaryTable(rows []analysis.StewardshipSummary, yearBefore, yearAfter, precision int) string {
	f := export.Formatter{Precision: precision}
	data := make([][]string, len(rows))
	for i, s := range rows {
		data[i] = []string{
			string(s.Stewardship),
			f.Int(s.SitesBefore), f.Int(s.SitesAfter), f.Int(s.Paired),
			f.Float(s.MeanBefore), f.Float(s.MeanAfter), f.Float(s.MeanChange),
			f.Int(s.Improved), f.Int(s.Worsened), f.Int(s.Stable), f.Float(s.PctImproved),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(
			"Stewardship",
			fmt.Sprintf("Sites %d", yearBefore), fmt.Sprintf("Sites %d", yearAfter), "Paired",
			fmt.Sprintf("Mean %d", yearBefore), fmt.Sprintf("Mean %d", yearAfter), "Change",
			"Improved", "Worsened", "Stable", "% Improved",
		).
		Rows(data...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && rows[row].Stewardship == assessment.StewardshipAll:
				return totalStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}
