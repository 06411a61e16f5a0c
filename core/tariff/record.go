package tariff

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Record is the structured form of one tariff expression
type Record struct {
	// Raw is the untrimmed input, or "" for empty-like input
	Raw string

	// Kind is always set
	Kind Kind

	// AdvaloremPercent is the percentage component
	AdvaloremPercent *decimal.Decimal

	// SpecificFee is the fixed fee component
	SpecificFee *decimal.Decimal

	// MinimumFee is the "not less than" floor
	MinimumFee *decimal.Decimal

	// Value is the bare number of an unknown_numeric expression
	Value *decimal.Decimal
}

// recordJSON is the wire form. Decimals go out as JSON numbers and absent
// components are omitted.
type recordJSON struct {
	Type             Kind        `json:"type"`
	Raw              string      `json:"raw"`
	AdvaloremPercent json.Number `json:"advalorem_percent,omitempty"`
	SpecificEuro     json.Number `json:"specific_euro,omitempty"`
	MinimumEuro      json.Number `json:"minimum_euro,omitempty"`
	Value            json.Number `json:"value,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Type:             r.Kind,
		Raw:              r.Raw,
		AdvaloremPercent: number(r.AdvaloremPercent),
		SpecificEuro:     number(r.SpecificFee),
		MinimumEuro:      number(r.MinimumFee),
		Value:            number(r.Value),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := Record{Kind: w.Type, Raw: w.Raw}
	fields := []struct {
		src json.Number
		dst **decimal.Decimal
	}{
		{w.AdvaloremPercent, &out.AdvaloremPercent},
		{w.SpecificEuro, &out.SpecificFee},
		{w.MinimumEuro, &out.MinimumFee},
		{w.Value, &out.Value},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		d, err := decimal.NewFromString(f.src.String())
		if err != nil {
			return err
		}
		*f.dst = &d
	}

	*r = out
	return nil
}

func number(d *decimal.Decimal) json.Number {
	if d == nil {
		return ""
	}
	return json.Number(d.String())
}
