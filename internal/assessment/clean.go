package assessment

import (
	"errors"
	"fmt"
	"strings"

	"bioretention/internal/workbook"
)

// ErrColumnMissing is returned when a required column is absent from a sheet.
var ErrColumnMissing = errors.New("required column missing")

// Columns names the shared columns of an assessment sheet.
type Columns struct {
	GRIID          string
	Stewardship    string
	ConditionScore string
	Ignore         []string
}

// Clean filters and types the rows of one assessment sheet.
//
// Rows are dropped, in this order, for a missing GRI ID, a non-numeric
// condition score, a score outside 1..5, or a GRI ID already seen earlier in
// the sheet. Every other column not listed in Ignore becomes a feature column
// if at least one kept row holds a number in it.
func Clean(sheet *workbook.Sheet, year int, cols Columns, resolver *StewardshipResolver) (*Dataset, error) {
	idCol := sheet.Column(cols.GRIID)
	if idCol < 0 {
		return nil, fmt.Errorf("%w: %q in sheet %q", ErrColumnMissing, cols.GRIID, sheet.Name)
	}
	scoreCol := sheet.Column(cols.ConditionScore)
	if scoreCol < 0 {
		return nil, fmt.Errorf("%w: %q in sheet %q", ErrColumnMissing, cols.ConditionScore, sheet.Name)
	}
	stewCol := -1
	if cols.Stewardship != "" {
		stewCol = sheet.Column(cols.Stewardship)
	}
	if resolver == nil {
		resolver = NewStewardshipResolver(nil)
	}

	candidates := featureCandidates(sheet, cols, idCol, scoreCol, stewCol)

	ds := &Dataset{
		Sheet: sheet.Name,
		Year:  year,
		Stats: Stats{Dropped: make(map[DropReason]int)},
	}
	seen := make(map[string]bool, len(sheet.Rows))
	hasValue := make(map[int]bool, len(candidates))

	for _, row := range sheet.Rows {
		ds.Stats.RowsRead++

		id := NormalizeID(row.Cells[idCol])
		if id == "" {
			ds.drop(Drop{Line: row.Line, Reason: DropMissingID})
			continue
		}
		rawScore := row.Cells[scoreCol]
		score, ok := ParseScore(rawScore)
		if !ok {
			ds.drop(Drop{Line: row.Line, GRIID: id, Reason: DropInvalidScore, Value: rawScore})
			continue
		}
		if !InRange(score) {
			ds.drop(Drop{Line: row.Line, GRIID: id, Reason: DropOutOfRange, Value: rawScore})
			continue
		}
		if seen[id] {
			ds.drop(Drop{Line: row.Line, GRIID: id, Reason: DropDuplicate})
			continue
		}
		seen[id] = true

		stewardship := StewardshipNone
		if stewCol >= 0 {
			var known bool
			stewardship, known = resolver.Resolve(row.Cells[stewCol])
			if !known {
				ds.Stats.UnknownStewardship++
				ds.LabelIssues = append(ds.LabelIssues, LabelIssue{Line: row.Line, GRIID: id, Label: string(stewardship)})
			}
		}

		rec := Record{
			Year:        year,
			GRIID:       id,
			Stewardship: stewardship,
			Score:       score,
			Features:    make(map[string]float64),
			Line:        row.Line,
		}
		for _, c := range candidates {
			if v, ok := ParseScore(row.Cells[c]); ok {
				rec.Features[sheet.Header[c]] = v
				hasValue[c] = true
			}
		}
		ds.Records = append(ds.Records, rec)
	}

	for _, c := range candidates {
		if hasValue[c] {
			ds.FeatureColumns = append(ds.FeatureColumns, sheet.Header[c])
		}
	}
	ds.Stats.RowsKept = len(ds.Records)
	sortRecords(ds.Records)
	return ds, nil
}

func (d *Dataset) drop(dr Drop) {
	d.Drops = append(d.Drops, dr)
	d.Stats.Dropped[dr.Reason]++
}

// featureCandidates returns the column indexes that may hold feature scores.
// Repeated headers keep their first occurrence.
func featureCandidates(sheet *workbook.Sheet, cols Columns, reserved ...int) []int {
	skip := make(map[string]bool, len(cols.Ignore))
	for _, name := range cols.Ignore {
		skip[strings.ToLower(workbook.NormalizeHeader(name))] = true
	}
	taken := make(map[int]bool, len(reserved))
	for _, r := range reserved {
		taken[r] = true
	}

	var out []int
	seen := make(map[string]bool, len(sheet.Header))
	for i, h := range sheet.Header {
		key := strings.ToLower(h)
		if h == "" || taken[i] || skip[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, i)
	}
	return out
}
