package report

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioretention/internal/analysis"
	"bioretention/internal/assessment"
	"bioretention/internal/config"
	"bioretention/internal/pipeline"
	"bioretention/internal/testutil"
)

func sampleResult(t *testing.T) *pipeline.Result {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Input.Workbook = testutil.SampleWorkbook(t)
	cfg.Features.Aliases = testutil.FeatureAliases()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	res, err := pipeline.Run(context.Background(), cfg, pipeline.Options{DryRun: true})
	require.NoError(t, err)
	return res
}

func TestMarkdown(t *testing.T) {
	res := sampleResult(t)
	md := Markdown(res, 2)

	assert.True(t, strings.HasPrefix(md, "# Bioretention condition report 2022 to 2024\n"))
	assert.Contains(t, md, res.RunID)
	assert.Contains(t, md, "| 2022 | 2022 | 9 | 5 | 4 | 0 |")
	assert.Contains(t, md, "- 2022: 1 × `duplicate_id`")
	assert.Contains(t, md, "| All | 5 | 3.40 | 2.80 | -0.60 | 3 | 1 | 1 | 60.00 |")
	assert.Contains(t, md, "Only in 2024: Outlet")
	assert.NotContains(t, md, "## Outputs", "dry runs write nothing")
}

func TestMarkdown_NaNShownAsNA(t *testing.T) {
	res := sampleResult(t)
	res.Summary = []analysis.StewardshipSummary{{
		Stewardship: assessment.StewardshipAll,
		MeanBefore:  math.NaN(), MeanAfter: math.NaN(), MeanChange: math.NaN(), PctImproved: math.NaN(),
	}}
	md := Markdown(res, 3)
	assert.Contains(t, md, "| All | 0 | n/a | n/a | n/a | 0 | 0 | 0 | n/a |")
}

func TestRender(t *testing.T) {
	out, err := Render("# Title\n\nbody text", 0)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}

func TestSummaryTable(t *testing.T) {
	res := sampleResult(t)
	out := SummaryTable(res.Summary, 2022, 2024, 1)

	for _, want := range []string{"Stewardship", "Sites 2022", "Mean 2024", "Green Streets", "All", "60.0"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, len(res.Summary)+4, len(strings.Split(strings.TrimRight(out, "\n"), "\n")),
		"top border, header, separator, rows, bottom border")
}
