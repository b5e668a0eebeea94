// Package assessment turns raw assessment sheets into typed, filtered site
// records.
package assessment

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Condition scores run from 1 (best) to 5 (worst).
const (
	MinScore = 1.0
	MaxScore = 5.0
)

// Record is one assessed site in one year.
type Record struct {
	Year        int
	GRIID       string
	Stewardship Stewardship
	Score       float64
	Features    map[string]float64 // header -> value; absent when blank
	Line        int                // sheet row the record came from
}

// Feature returns a feature value and whether it was recorded.
func (r *Record) Feature(column string) (float64, bool) {
	v, ok := r.Features[column]
	return v, ok
}

// DropReason explains why a sheet row was excluded.
type DropReason string

const (
	DropMissingID    DropReason = "missing_id"
	DropInvalidScore DropReason = "invalid_score"
	DropOutOfRange   DropReason = "out_of_range"
	DropDuplicate    DropReason = "duplicate_id"
)

// Drop is an excluded row.
type Drop struct {
	Line   int
	GRIID  string
	Reason DropReason
	Value  string // offending cell, if any
}

// LabelIssue is a kept row whose stewardship label was not recognized.
type LabelIssue struct {
	Line  int
	GRIID string
	Label string
}

// Stats counts what cleaning did to a sheet.
type Stats struct {
	RowsRead           int
	RowsKept           int
	Dropped            map[DropReason]int
	UnknownStewardship int
}

// DroppedTotal sums every drop reason.
func (s Stats) DroppedTotal() int {
	n := 0
	for _, c := range s.Dropped {
		n += c
	}
	return n
}

// Dataset is one cleaned sheet.
type Dataset struct {
	Sheet          string
	Year           int
	Records        []Record // sorted by GRI ID
	FeatureColumns []string // header order
	Drops          []Drop
	LabelIssues    []LabelIssue
	Stats          Stats
}

// Index maps GRI ID to record.
func (d *Dataset) Index() map[string]*Record {
	idx := make(map[string]*Record, len(d.Records))
	for i := range d.Records {
		idx[d.Records[i].GRIID] = &d.Records[i]
	}
	return idx
}

// NormalizeID trims and upper-cases a GRI ID.
func NormalizeID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ParseScore parses a numeric cell. Blank, NaN and infinite values fail.
func ParseScore(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// InRange reports whether a condition score is on the 1..5 scale.
func InRange(score float64) bool {
	return score >= MinScore && score <= MaxScore
}

func sortRecords(recs []Record) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].GRIID < recs[j].GRIID })
}
