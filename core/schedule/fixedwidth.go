package schedule

import (
	"fmt"
	"strings"
	"unicode"
)

// FixedWidth infers column boundaries from character positions that are
// blank on every sampled line.
type FixedWidth struct {
	sampleRows int
}

// NewFixedWidth creates a fixed-width reader sampling up to sampleRows lines
func NewFixedWidth(sampleRows int) *FixedWidth {
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}
	return &FixedWidth{sampleRows: sampleRows}
}

// Name implements Strategy
func (f *FixedWidth) Name() string {
	return "fixed-width"
}

// Read implements Strategy
func (f *FixedWidth) Read(src *Source) (*Table, error) {
	var lines [][]rune
	for _, l := range src.Lines() {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, []rune(l))
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no lines")
	}

	starts := columnStarts(lines[:min(len(lines), f.sampleRows)])
	if len(starts) < 2 {
		return nil, fmt.Errorf("found %d column, need at least 2", len(starts))
	}

	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		row := make([]string, len(starts))
		for i, start := range starts {
			end := len(l)
			if i+1 < len(starts) && starts[i+1] < end {
				end = starts[i+1]
			}
			if start < end {
				row[i] = strings.TrimSpace(string(l[start:end]))
			}
		}
		rows = append(rows, row)
	}

	return &Table{Rows: rows}, nil
}

// columnStarts returns the first position of every run of columns that
// holds a non-space character on at least one line.
func columnStarts(lines [][]rune) []int {
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}

	occupied := make([]bool, width)
	for _, l := range lines {
		for i, r := range l {
			if !unicode.IsSpace(r) {
				occupied[i] = true
			}
		}
	}

	var starts []int
	for i, used := range occupied {
		if used && (i == 0 || !occupied[i-1]) {
			starts = append(starts, i)
		}
	}
	return starts
}
