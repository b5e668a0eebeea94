// Package workbook reads the assessment spreadsheet.
package workbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when a named sheet is absent from the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// Workbook is an open xlsx file.
type Workbook struct {
	path string
	file *excelize.File
}

// Sheet is one worksheet as a normalized header plus string rows.
// Every row has exactly len(Header) cells.
type Sheet struct {
	Name   string
	Header []string
	Rows   []Row
}

// Row is a data row with its 1-based position in the worksheet.
type Row struct {
	Line  int
	Cells []string
}

// Open opens an xlsx workbook.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

// Path returns the workbook file path.
func (w *Workbook) Path() string {
	return w.path
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sheets returns sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

// ReadSheet loads a sheet. The first non-blank row is the header. Cells are
// read as stored, not as displayed by their number format.
func (w *Workbook) ReadSheet(name string) (*Sheet, error) {
	if !w.hasSheet(name) {
		return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, name, w.path)
	}
	raw, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	return buildSheet(name, raw), nil
}

func (w *Workbook) hasSheet(name string) bool {
	for _, s := range w.file.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

func buildSheet(name string, raw [][]string) *Sheet {
	sheet := &Sheet{Name: name}
	headerAt := -1
	for i, cells := range raw {
		if !isBlank(cells) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return sheet
	}

	header := raw[headerAt]
	// Trailing empty header cells are formatting residue
	for len(header) > 0 && NormalizeHeader(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	sheet.Header = make([]string, len(header))
	for i, h := range header {
		sheet.Header[i] = NormalizeHeader(h)
	}

	for i := headerAt + 1; i < len(raw); i++ {
		if isBlank(raw[i]) {
			continue
		}
		cells := make([]string, len(sheet.Header))
		for j := range cells {
			if j < len(raw[i]) {
				cells[j] = strings.TrimSpace(raw[i][j])
			}
		}
		if isBlank(cells) {
			continue
		}
		sheet.Rows = append(sheet.Rows, Row{Line: i + 1, Cells: cells})
	}
	return sheet
}

// Column returns the index of a header, matched case-insensitively after
// normalization, or -1.
func (s *Sheet) Column(name string) int {
	want := strings.ToLower(NormalizeHeader(name))
	if want == "" {
		return -1
	}
	for i, h := range s.Header {
		if strings.ToLower(h) == want {
			return i
		}
	}
	return -1
}

// NormalizeHeader trims a header and collapses internal whitespace
// (including line breaks inside merged cells) to single spaces.
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(h), " ")
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
