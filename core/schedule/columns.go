package schedule

import (
	"strings"

	"tnved-tariffs/core/tariff"
)

// ColumnKeywords are case-insensitive header fragments identifying each role
type ColumnKeywords struct {
	Code   []string `json:"code" mapstructure:"code"`
	Tariff []string `json:"tariff" mapstructure:"tariff"`
	Name   []string `json:"name" mapstructure:"name"`
}

// DefaultColumnKeywords match Russian and English schedule headers
func DefaultColumnKeywords() ColumnKeywords {
	return ColumnKeywords{
		Code:   []string{"код", "code"},
		Tariff: []string{"тариф", "tariff", "ставк", "rate", "duty"},
		Name:   []string{"наим", "name", "опис", "descr"},
	}
}

// Merge returns k with every non-empty list of override replacing its own
func (k ColumnKeywords) Merge(override ColumnKeywords) ColumnKeywords {
	if len(override.Code) > 0 {
		k.Code = override.Code
	}
	if len(override.Tariff) > 0 {
		k.Tariff = override.Tariff
	}
	if len(override.Name) > 0 {
		k.Name = override.Name
	}
	return k
}

// roles holds column indexes; -1 means unassigned
type roles struct {
	code, tariff, name int
}

// assignRoles picks the code, tariff and name columns. Header keywords
// decide first, with each column taking the first unassigned role it
// matches; a column literally named "0" counts as a code column. Missing
// roles fall back to position and content.
func assignRoles(t *Table, kw ColumnKeywords, classifier *tariff.Classifier) roles {
	r := roles{code: -1, tariff: -1, name: -1}

	for i, h := range t.Header {
		lower := strings.ToLower(h)
		switch {
		case r.code < 0 && (containsAny(lower, kw.Code) || lower == "0"):
			r.code = i
		case r.tariff < 0 && containsAny(lower, kw.Tariff):
			r.tariff = i
		case r.name < 0 && containsAny(lower, kw.Name):
			r.name = i
		}
	}

	width := len(t.Header)
	if r.code < 0 && width > 0 {
		r.code = 0
	}

	if r.tariff < 0 && width > 1 {
		for i := 0; i < width && r.tariff < 0; i++ {
			if i == r.code || i == r.name {
				continue
			}
			for _, row := range t.Rows {
				if classifier.MentionsRate(cell(row, i)) {
					r.tariff = i
					break
				}
			}
		}
		for i := 0; i < width && r.tariff < 0; i++ {
			if i != r.code && i != r.name {
				r.tariff = i
			}
		}
	}

	return r
}

func (r roles) columns(header []string) Columns {
	name := func(i int) string {
		if i < 0 || i >= len(header) {
			return ""
		}
		return header[i]
	}
	return Columns{Code: name(r.code), Tariff: name(r.tariff), Name: name(r.name)}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}
