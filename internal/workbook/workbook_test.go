package workbook

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bioretention/internal/testutil"
)

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorContains(t, err, "failed to open workbook")
}

func TestSheets(t *testing.T) {
	wb, err := Open(testutil.SampleWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"2022", "2024"}, wb.Sheets())
}

func TestReadSheet_NotFound(t *testing.T) {
	wb, err := Open(testutil.SampleWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.ReadSheet("2023")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}

func TestReadSheet_HeaderAndPadding(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "messy.xlsx", testutil.SheetData{
		Name: "2022",
		Rows: [][]interface{}{
			{},
			{"  GRI\nID ", "Condition   Score", "Notes", ""},
			{"A-1", 2},
			{"", "", ""},
			{"A-2", 3, "ok", "stray"},
		},
	})

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	sheet, err := wb.ReadSheet("2022")
	require.NoError(t, err)

	want := &Sheet{
		Name:   "2022",
		Header: []string{"GRI ID", "Condition Score", "Notes"},
		Rows: []Row{
			{Line: 3, Cells: []string{"A-1", "2", ""}},
			{Line: 5, Cells: []string{"A-2", "3", "ok"}},
		},
	}
	if diff := cmp.Diff(want, sheet); diff != "" {
		t.Errorf("ReadSheet mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSheet_IgnoresNumberFormat(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "styled.xlsx", testutil.SheetData{
		Name: "2022",
		Rows: [][]interface{}{
			{"GRI ID", "Condition Score", "Vegetation"},
			{"A-1", 2.5, 3.25},
		},
	})

	// Format the score columns as whole numbers, as field sheets often are.
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	style, err := f.NewStyle(&excelize.Style{NumFmt: 1})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("2022", "B2", "C2", style))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	sheet, err := wb.ReadSheet("2022")
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, []string{"A-1", "2.5", "3.25"}, sheet.Rows[0].Cells)
}

func TestReadSheet_Empty(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "empty.xlsx", testutil.SheetData{Name: "2024"})

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	sheet, err := wb.ReadSheet("2024")
	require.NoError(t, err)
	assert.Empty(t, sheet.Header)
	assert.Empty(t, sheet.Rows)
}

func TestSheet_Column(t *testing.T) {
	s := &Sheet{Header: []string{"GRI ID", "Condition Score"}}
	assert.Equal(t, 0, s.Column("gri id"))
	assert.Equal(t, 1, s.Column(" Condition  Score "))
	assert.Equal(t, -1, s.Column("Stewardship"))
	assert.Equal(t, -1, s.Column(""))
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "Sediment / Debris", NormalizeHeader("  Sediment /\tDebris\n"))
	assert.Equal(t, "", NormalizeHeader("   "))
}
