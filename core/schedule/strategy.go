package schedule

import (
	"fmt"
	"strings"

	"tnved-tariffs/core/tariff"
)

// Strategy reads a source into a table. Strategies are tried in order and
// the first one returning a table with at least two columns wins.
type Strategy interface {
	// Name identifies the strategy in logs and results
	Name() string

	// Read parses the source or explains why it cannot
	Read(src *Source) (*Table, error)
}

// DefaultDelimiters are tried in this order
var DefaultDelimiters = []string{",", ";", "\t", "|"}

// DefaultSampleRows bounds how many lines fixed-width inference inspects
const DefaultSampleRows = 100

// DefaultStrategies returns the standard fallback chain: spreadsheet,
// one delimited reader per delimiter, fixed-width, raw lines.
func DefaultStrategies(delimiters []string, sampleRows int, classifier *tariff.Classifier) ([]Strategy, error) {
	if len(delimiters) == 0 {
		delimiters = DefaultDelimiters
	}
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}

	strategies := []Strategy{NewSpreadsheet()}
	for _, d := range delimiters {
		s, err := NewDelimited(d)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	strategies = append(strategies,
		NewFixedWidth(sampleRows),
		NewLineScanner(classifier),
	)
	return strategies, nil
}

func trimCell(s string) string {
	return strings.TrimSpace(s)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return trimCell(row[idx])
}

func describeDelimiter(d rune) string {
	switch d {
	case '\t':
		return `\t`
	case ' ':
		return "space"
	}
	return fmt.Sprintf("%c", d)
}
