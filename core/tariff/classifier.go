package tariff

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numberPattern is a non-negative decimal with either separator
const numberPattern = `\d+(?:[.,]\d+)?`

// Classifier turns tariff expressions into records. It is safe for
// concurrent use.
type Classifier struct {
	vocab Vocabulary

	percent *regexp.Regexp
	fee     *regexp.Regexp
	floor   *regexp.Regexp
	number  *regexp.Regexp
	hint    *regexp.Regexp

	percentExpr *regexp.Regexp
	feeExpr     *regexp.Regexp

	empty map[string]struct{}
}

// NewClassifier compiles the detectors for a vocabulary
func NewClassifier(vocab Vocabulary) (*Classifier, error) {
	if err := vocab.Validate(); err != nil {
		return nil, err
	}

	currency := alternation(vocab.CurrencyMarkers)
	floor := alternation(vocab.FloorMarkers)

	patterns := map[string]string{
		"percent":     `(` + numberPattern + `)\s*%`,
		"fee":         `(?i)(` + numberPattern + `)\s*` + currency + `(?:\s+\d+)?`,
		"floor":       `(?i)` + floor + `\s+(` + numberPattern + `)\s*` + currency,
		"number":      `(` + numberPattern + `)`,
		"hint":        `(?i)%|` + currency,
		"percentExpr": numberPattern + `\s*%`,
		"feeExpr":     `(?i)` + numberPattern + `\s*` + currency + `(?:\s+\d+)?`,
	}
	compiled := make(map[string]*regexp.Regexp, len(patterns))
	for name, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s pattern: %w", name, err)
		}
		compiled[name] = re
	}

	empty := make(map[string]struct{}, len(vocab.EmptyMarkers))
	for _, m := range nonBlank(vocab.EmptyMarkers) {
		empty[m] = struct{}{}
	}

	return &Classifier{
		vocab:       vocab,
		percent:     compiled["percent"],
		fee:         compiled["fee"],
		floor:       compiled["floor"],
		number:      compiled["number"],
		hint:        compiled["hint"],
		percentExpr: compiled["percentExpr"],
		feeExpr:     compiled["feeExpr"],
		empty:       empty,
	}, nil
}

// MustNewClassifier is NewClassifier that panics on an invalid vocabulary
func MustNewClassifier(vocab Vocabulary) *Classifier {
	c, err := NewClassifier(vocab)
	if err != nil {
		panic(err)
	}
	return c
}

// Vocabulary returns the wording this classifier was built from
func (c *Classifier) Vocabulary() Vocabulary {
	return c.vocab
}

// Classify never fails: unrecognizable text degrades to unknown or
// unknown_numeric.
func (c *Classifier) Classify(text string) Record {
	if c.IsEmpty(text) {
		return Record{Kind: KindUnknown}
	}

	rec := Record{
		Raw:              text,
		AdvaloremPercent: firstDecimal(c.percent, text),
		SpecificFee:      firstDecimal(c.fee, text),
		MinimumFee:       firstDecimal(c.floor, text),
	}

	kind, ok := resolveKind(presence{
		percent: rec.AdvaloremPercent != nil,
		fee:     rec.SpecificFee != nil,
		floor:   rec.MinimumFee != nil,
	})
	if ok {
		rec.Kind = kind
		return rec
	}

	if v := firstDecimal(c.number, text); v != nil {
		rec.Value = v
		rec.Kind = KindUnknownNumeric
		return rec
	}

	rec.Kind = KindUnknown
	return rec
}

// IsEmpty reports whether text is blank or a "no value" placeholder
func (c *Classifier) IsEmpty(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	_, ok := c.empty[trimmed]
	return ok
}

// MentionsRate reports whether text carries a percent sign or a currency
// marker.
func (c *Classifier) MentionsRate(text string) bool {
	return c.hint.MatchString(text)
}

// FindExpression extracts the first rate-looking fragment from a longer
// line: a percentage if present, otherwise an amount with currency.
func (c *Classifier) FindExpression(line string) string {
	if m := c.percentExpr.FindString(line); m != "" {
		return m
	}
	return c.feeExpr.FindString(line)
}

// firstDecimal parses capture group 1 of the first match. A group that does
// not parse counts as no match.
func firstDecimal(re *regexp.Regexp, text string) *decimal.Decimal {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	d, err := ParseDecimal(m[1])
	if err != nil {
		return nil
	}
	return &d
}

// ParseDecimal parses a number written with either "." or "," as the
// fractional separator.
func ParseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
}

var defaultClassifier = MustNewClassifier(DefaultVocabulary())

// Classify classifies text with the default vocabulary
func Classify(text string) Record {
	return defaultClassifier.Classify(text)
}

// Default returns the classifier behind Classify
func Default() *Classifier {
	return defaultClassifier
}
