package tariff

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

// fragments generates word lists built from pieces real schedules use
func fragments() gopter.Gen {
	piece := gen.OneConstOf(
		"5%", "3,5 %", "12.75%", "10 EUR", "0,4 евро", "EUR 1000", "за 1 кг",
		"но не менее", "min", "+", "-", " ", "free", "7", "1,25", "шт", "%",
	)
	return gen.SliceOfN(6, piece, reflect.TypeOf(""))
}

func TestClassifyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("classification is deterministic", prop.ForAll(
		func(parts []string) bool {
			text := strings.Join(parts, " ")
			return sameRecord(Classify(text), Classify(text))
		},
		fragments(),
	))

	properties.Property("arbitrary text never loses its kind", prop.ForAll(
		func(text string) bool {
			rec := Classify(text)
			return rec.Kind != "" && sameRecord(rec, Classify(text))
		},
		gen.AnyString(),
	))

	properties.Property("numeric fields are non-negative", prop.ForAll(
		func(parts []string) bool {
			rec := Classify(strings.Join(parts, " "))
			for _, d := range []*decimal.Decimal{rec.AdvaloremPercent, rec.SpecificFee, rec.MinimumFee, rec.Value} {
				if d != nil && d.IsNegative() {
					return false
				}
			}
			return true
		},
		fragments(),
	))

	properties.Property("bare value never coexists with a rate component", prop.ForAll(
		func(parts []string) bool {
			rec := Classify(strings.Join(parts, " "))
			if rec.Value == nil {
				return true
			}
			return rec.Kind == KindUnknownNumeric &&
				rec.AdvaloremPercent == nil && rec.SpecificFee == nil && rec.MinimumFee == nil
		},
		fragments(),
	))

	properties.TestingRun(t)
}

func sameRecord(a, b Record) bool {
	return a.Kind == b.Kind && a.Raw == b.Raw &&
		sameDecimal(a.AdvaloremPercent, b.AdvaloremPercent) &&
		sameDecimal(a.SpecificFee, b.SpecificFee) &&
		sameDecimal(a.MinimumFee, b.MinimumFee) &&
		sameDecimal(a.Value, b.Value)
}

func sameDecimal(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
