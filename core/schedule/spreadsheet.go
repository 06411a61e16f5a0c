package schedule

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var spreadsheetExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// Spreadsheet reads the first worksheet of an Office Open XML workbook
type Spreadsheet struct{}

// NewSpreadsheet creates a workbook reader
func NewSpreadsheet() *Spreadsheet {
	return &Spreadsheet{}
}

// Name implements Strategy
func (s *Spreadsheet) Name() string {
	return "xlsx"
}

// Read implements Strategy
func (s *Spreadsheet) Read(src *Source) (*Table, error) {
	if !spreadsheetExts[src.Ext()] {
		return nil, fmt.Errorf("not a workbook (%q)", src.Ext())
	}

	f, err := excelize.OpenReader(bytes.NewReader(src.Raw))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var rows [][]string
	for _, r := range all {
		if !isBlankRecord(r) {
			rows = append(rows, r)
		}
	}

	t := &Table{Rows: rows}
	if t.Width() < 2 {
		return nil, fmt.Errorf("sheet %q has fewer than 2 columns", sheets[0])
	}
	return t, nil
}
