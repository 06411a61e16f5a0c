package schedule

import (
	"fmt"
	"regexp"
	"strings"

	"tnved-tariffs/core/tariff"
)

var (
	lineCode   = regexp.MustCompile(`\b(\d{4,10})\b`)
	bareNumber = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)
)

// LineScanner is the last resort: every line carrying a standalone code is
// a row, and the rate is pulled out of the rest of the line.
type LineScanner struct {
	classifier *tariff.Classifier
}

// NewLineScanner creates a line scanner that recognizes rate fragments with
// the classifier's vocabulary.
func NewLineScanner(classifier *tariff.Classifier) *LineScanner {
	return &LineScanner{classifier: classifier}
}

// Name implements Strategy
func (s *LineScanner) Name() string {
	return "lines"
}

// Read produces a code/tariff/name table; names are always empty because a
// free text line has no reliable description boundary.
func (s *LineScanner) Read(src *Source) (*Table, error) {
	var rows [][]string
	for _, line := range src.Lines() {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "---") {
			continue
		}

		m := lineCode.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rows = append(rows, []string{m[1], s.findTariff(line), ""})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no line contains a commodity code")
	}
	return &Table{Header: []string{"code", "tariff", "name"}, Rows: rows}, nil
}

// findTariff prefers a percentage, then an amount with currency, then the
// last bare number on the line.
func (s *LineScanner) findTariff(line string) string {
	if expr := s.classifier.FindExpression(line); expr != "" {
		return expr
	}
	parts := strings.Fields(line)
	for i := len(parts) - 1; i >= 0; i-- {
		if bareNumber.MatchString(parts[i]) {
			return parts[i]
		}
	}
	return ""
}
