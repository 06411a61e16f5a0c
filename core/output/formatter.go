// Package output renders ingested schedules.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tnved-tariffs/core/schedule"
	"tnved-tariffs/core/tariff"
	"tnved-tariffs/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatJSON is the machine-readable array of records
	FormatJSON Format = "json"

	// FormatCLI is a short human-readable listing
	FormatCLI Format = "cli"
)

// Formatter renders commodity rows in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes rows to w
	Render(w io.Writer, rows []schedule.CommodityRow) error

	// RenderRecords writes bare tariff records to w
	RenderRecords(w io.Writer, recs []tariff.Record) error
}

// ForFormat returns the formatter for a format name. The vocabulary's first
// currency marker labels fees in human-readable output.
func ForFormat(f Format, vocab tariff.Vocabulary) (Formatter, error) {
	switch f {
	case FormatJSON, "":
		return JSONFormatter{Indent: "  "}, nil
	case FormatCLI:
		return CLIFormatter{Currency: currencyLabel(vocab)}, nil
	}
	return nil, errors.Newf(errors.TypeConfig, "unknown output format %q", f)
}

// JSONFormatter writes a JSON array. Non-ASCII text is written as is.
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter
func (JSONFormatter) Format() Format { return FormatJSON }

// Render implements Formatter
func (f JSONFormatter) Render(w io.Writer, rows []schedule.CommodityRow) error {
	if rows == nil {
		rows = []schedule.CommodityRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", f.Indent)
	if err := enc.Encode(rows); err != nil {
		return errors.Output("encode records", err)
	}
	return nil
}

// RenderRecords implements Formatter
func (f JSONFormatter) RenderRecords(w io.Writer, recs []tariff.Record) error {
	if recs == nil {
		recs = []tariff.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", f.Indent)
	if err := enc.Encode(recs); err != nil {
		return errors.Output("encode records", err)
	}
	return nil
}

// CLIFormatter lists each row with its raw and recognized tariff
type CLIFormatter struct {
	// Currency labels fee amounts
	Currency string
}

// Format implements Formatter
func (CLIFormatter) Format() Format { return FormatCLI }

// Render implements Formatter
func (f CLIFormatter) Render(w io.Writer, rows []schedule.CommodityRow) error {
	for i, r := range rows {
		if _, err := fmt.Fprintf(w, "%d. Code: %s, Tariff: %s\n   Parsed: %s\n", i+1, r.Code, r.TariffRaw, Describe(r.Tariff, f.Currency)); err != nil {
			return errors.Output("write listing", err)
		}
	}
	return nil
}

// RenderRecords implements Formatter
func (f CLIFormatter) RenderRecords(w io.Writer, recs []tariff.Record) error {
	for _, rec := range recs {
		if _, err := fmt.Fprintf(w, "%q: %s\n", rec.Raw, Describe(rec, f.Currency)); err != nil {
			return errors.Output("write listing", err)
		}
	}
	return nil
}

func currencyLabel(vocab tariff.Vocabulary) string {
	for _, m := range vocab.CurrencyMarkers {
		if m = strings.TrimSpace(m); m != "" {
			return m
		}
	}
	return ""
}

// Describe is a one-line summary of a record, e.g. "combined 5% + 3 EUR".
// Fee amounts carry the currency label when one is given.
func Describe(rec tariff.Record, currency string) string {
	amount := func(d fmt.Stringer) string {
		if currency == "" {
			return d.String()
		}
		return d.String() + " " + currency
	}

	parts := []string{string(rec.Kind)}
	if rec.AdvaloremPercent != nil {
		parts = append(parts, rec.AdvaloremPercent.String()+"%")
	}
	if rec.SpecificFee != nil {
		if len(parts) > 1 {
			parts = append(parts, "+")
		}
		parts = append(parts, amount(rec.SpecificFee))
	}
	if rec.MinimumFee != nil {
		parts = append(parts, "min", amount(rec.MinimumFee))
	}
	if rec.Value != nil {
		parts = append(parts, rec.Value.String())
	}
	return strings.Join(parts, " ")
}

// WriteFile writes rows as JSON to path, creating parent directories
func WriteFile(path string, rows []schedule.CommodityRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Output("create output directory", err).WithContext("path", path)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Output("create output file", err).WithContext("path", path)
	}

	if err := (JSONFormatter{Indent: "  "}).Render(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.Output("close output file", err).WithContext("path", path)
	}
	return nil
}

// ReadFile loads rows previously written by WriteFile
func ReadFile(path string) ([]schedule.CommodityRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Input("cannot read records", err).WithContext("path", path)
	}
	var rows []schedule.CommodityRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Input("records are not a JSON array", err).WithContext("path", path)
	}
	return rows, nil
}
