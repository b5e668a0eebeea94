// Package testutil builds assessment workbooks for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SheetData is one worksheet; Rows[0] is usually the header.
type SheetData struct {
	Name string
	Rows [][]interface{}
}

// WriteWorkbook writes sheets, in order, to dir/name and returns the path.
func WriteWorkbook(t testing.TB, dir, name string, sheets ...SheetData) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("new sheet %s: %v", sheet.Name, err)
		}
		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := row
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				t.Fatalf("write row %d of %s: %v", r+1, sheet.Name, err)
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// Before2022 is a 2022 assessment sheet with one row per drop reason.
func Before2022() SheetData {
	return SheetData{
		Name: "2022",
		Rows: [][]interface{}{
			{"GRI ID", "Stewardship", "Condition Score", "Vegetation", "Sediment", "Inlet", "Notes", "Latitude"},
			{"GRI-001", "None", 3, 3, 2, 1, "", 45.51},
			{"GRI-002", "Seeding", 4, 4, 3, 2, "weedy", 45.52},
			{"GRI-003", "Green Streets", 2, 2, 2, 1, "", 45.53},
			{"GRI-004", "none", 5, 5, 4, 3, "", 45.54},
			{"GRI-005", "", "abc", 1, 1, 1, "score illegible", 45.55},
			{"", "Seeding", 3, 3, 3, 3, "no id", 45.56},
			{"GRI-006", "gs", 6, 2, 2, 2, "", 45.57},
			{"GRI-002", "Seeding", 1, 1, 1, 1, "duplicate visit", 45.52},
			{" gri-007 ", "Seeded", 3, 3, "", 2, "", 45.58},
		},
	}
}

// After2024 is the matching 2024 sheet; "Sediment" was renamed and
// "Outlet" added.
func After2024() SheetData {
	return SheetData{
		Name: "2024",
		Rows: [][]interface{}{
			{"GRI ID", "Stewardship", "Condition Score", "Vegetation", "Sediment / Debris", "Inlet", "Outlet", "Notes"},
			{"GRI-001", "Seeding", 2, 2, 2, 1, 3, ""},
			{"GRI-002", "Seeding", 4, 3, 3, 2, 2, ""},
			{"GRI-003", "Green Streets", 3, 3, 2, 2, 1, ""},
			{"GRI-004", "None", 4, 4, 4, 3, 4, ""},
			{"GRI-007", "Seeding", 1, 1, 1, 1, 1, ""},
			{"GRI-008", "Green Streets", 2, 2, 1, 1, 1, "new site"},
		},
	}
}

// FeatureAliases aligns the renamed sediment column of the sample sheets.
func FeatureAliases() map[string]string {
	return map[string]string{"Sediment / Debris": "Sediment"}
}

// SampleWorkbook writes the 2022/2024 sample workbook into a temp dir.
func SampleWorkbook(t testing.TB) string {
	t.Helper()
	return WriteWorkbook(t, t.TempDir(), "assessments.xlsx", Before2022(), After2024())
}
