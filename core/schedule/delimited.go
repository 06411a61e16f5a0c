package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Delimited reads character-separated text with quoting support
type Delimited struct {
	comma rune
}

// NewDelimited creates a reader for a single-character delimiter
func NewDelimited(delimiter string) (*Delimited, error) {
	r, size := utf8.DecodeRuneInString(delimiter)
	if size == 0 || size != len(delimiter) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return nil, fmt.Errorf("invalid delimiter %q: must be a single character other than quote or newline", delimiter)
	}
	return &Delimited{comma: r}, nil
}

// Name implements Strategy
func (d *Delimited) Name() string {
	return "delimited(" + describeDelimiter(d.comma) + ")"
}

// Read accepts the source when the first record has at least two fields,
// no later record is wider than the first, and at least half of the
// records split into two or more fields.
func (d *Delimited) Read(src *Source) (*Table, error) {
	r := csv.NewReader(strings.NewReader(src.Text))
	r.Comma = d.comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed input: %w", err)
		}
		if isBlankRecord(rec) {
			continue
		}
		rows = append(rows, rec)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no records")
	}

	width := len(rows[0])
	if width < 2 {
		return nil, fmt.Errorf("first record has %d field", width)
	}

	split := 0
	for i, rec := range rows {
		if len(rec) > width {
			return nil, fmt.Errorf("record %d has %d fields, expected at most %d", i+1, len(rec), width)
		}
		if len(rec) >= 2 {
			split++
		}
	}
	if split*2 < len(rows) {
		return nil, fmt.Errorf("only %d of %d records contain the delimiter", split, len(rows))
	}

	return &Table{Rows: rows}, nil
}

func isBlankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
