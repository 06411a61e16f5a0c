package tariff

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Vocabulary is the locale-specific wording the classifier recognizes.
// Changing it never requires touching the classification rules.
type Vocabulary struct {
	// CurrencyMarkers follow a fixed-fee amount ("EUR", "евро")
	CurrencyMarkers []string `json:"currency_markers" mapstructure:"currency_markers"`

	// FloorMarkers precede a minimum fee ("но не менее", "min")
	FloorMarkers []string `json:"floor_markers" mapstructure:"floor_markers"`

	// EmptyMarkers are whole-cell placeholders meaning "no rate"
	EmptyMarkers []string `json:"empty_markers" mapstructure:"empty_markers"`
}

// DefaultVocabulary covers Russian and English customs schedules quoting
// fees in euro.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		CurrencyMarkers: []string{"EUR", "евро"},
		FloorMarkers:    []string{"но не менее", "but not less than", "min"},
		EmptyMarkers:    []string{"-", "–", "—"},
	}
}

// Merge returns v with every non-empty list of override replacing its own
func (v Vocabulary) Merge(override Vocabulary) Vocabulary {
	if len(override.CurrencyMarkers) > 0 {
		v.CurrencyMarkers = override.CurrencyMarkers
	}
	if len(override.FloorMarkers) > 0 {
		v.FloorMarkers = override.FloorMarkers
	}
	if len(override.EmptyMarkers) > 0 {
		v.EmptyMarkers = override.EmptyMarkers
	}
	return v
}

// Validate checks that the pattern-building lists are usable
func (v Vocabulary) Validate() error {
	if len(nonBlank(v.CurrencyMarkers)) == 0 {
		return fmt.Errorf("vocabulary has no currency markers")
	}
	if len(nonBlank(v.FloorMarkers)) == 0 {
		return fmt.Errorf("vocabulary has no floor markers")
	}
	return nil
}

// alternation builds a non-capturing group matching any marker. Longer
// markers come first so a marker that prefixes another cannot shadow it;
// inner whitespace matches any run of spaces.
func alternation(markers []string) string {
	sorted := nonBlank(markers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	parts := make([]string, 0, len(sorted))
	for _, m := range sorted {
		words := strings.Fields(m)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		parts = append(parts, strings.Join(words, `\s+`))
	}
	return "(?:" + strings.Join(parts, "|") + ")"
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
