// Package schedule ingests tariff-schedule files of unknown layout and
// turns each commodity row into a classified record.
package schedule

import (
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"tnved-tariffs/core/tariff"
)

// codeShape is the accepted commodity code prefix
var codeShape = regexp.MustCompile(`^\d{4,10}`)

// ValidCode reports whether s starts with a run of 4 to 10 digits
func ValidCode(s string) bool {
	return codeShape.MatchString(s)
}

// CommodityRow is one accepted schedule row
type CommodityRow struct {
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	TariffRaw string        `json:"tariff_raw"`
	Tariff    tariff.Record `json:"tariff_parsed"`
}

// Columns names the columns chosen for each role. Name is empty when the
// table has no description column.
type Columns struct {
	Code   string `json:"code"`
	Tariff string `json:"tariff"`
	Name   string `json:"name,omitempty"`
}

// Attempt records one read strategy that was tried
type Attempt struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error,omitempty"`
}

// Succeeded reports whether the strategy produced a usable table
func (a Attempt) Succeeded() bool {
	return a.Error == ""
}

// Result is the outcome of ingesting one file
type Result struct {
	RunID    uuid.UUID      `json:"run_id"`
	Source   string         `json:"source"`
	Digest   string         `json:"digest,omitempty"`
	Strategy string         `json:"strategy,omitempty"`
	Columns  Columns        `json:"columns"`
	Rows     []CommodityRow `json:"rows"`
	Dropped  int            `json:"dropped"`
	Attempts []Attempt      `json:"attempts"`
}

// Table is the rectangular view a read strategy produces. A nil Header
// means the first row may or may not be a header and is left to the
// ingester to decide.
type Table struct {
	Header []string
	Rows   [][]string
}

// Width is the widest row, header included
func (t *Table) Width() int {
	w := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// resolveHeader decides whether the first row is a header: it is one unless
// one of its cells already looks like a commodity code. Headerless tables
// get positional names.
func (t *Table) resolveHeader() {
	if t.Header == nil && len(t.Rows) > 0 {
		first := t.Rows[0]
		isData := false
		for _, cell := range first {
			if ValidCode(trimCell(cell)) {
				isData = true
				break
			}
		}
		if !isData {
			t.Header = first
			t.Rows = t.Rows[1:]
		}
	}

	width := t.Width()
	header := make([]string, width)
	for i := range header {
		if i < len(t.Header) && trimCell(t.Header[i]) != "" {
			header[i] = trimCell(t.Header[i])
		} else {
			header[i] = strconv.Itoa(i)
		}
	}
	t.Header = header
}
