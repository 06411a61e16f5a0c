// Package vocabulary loads marker and column-keyword overrides from HCL.
//
// A file looks like:
//
//	currency_markers = ["USD", "$"]
//	floor_markers    = ["at least"]
//
//	columns {
//	  tariff = ["rate of duty"]
//	}
//
// Every list is optional; a missing list keeps the built-in one.
package vocabulary

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"tnved-tariffs/core/schedule"
	"tnved-tariffs/core/tariff"
	"tnved-tariffs/internal/errors"
)

// Set is the classifier vocabulary together with the header keywords
type Set struct {
	Markers tariff.Vocabulary
	Columns schedule.ColumnKeywords
}

// Default returns the built-in set
func Default() Set {
	return Set{
		Markers: tariff.DefaultVocabulary(),
		Columns: schedule.DefaultColumnKeywords(),
	}
}

type fileSchema struct {
	CurrencyMarkers []string       `hcl:"currency_markers,optional"`
	FloorMarkers    []string       `hcl:"floor_markers,optional"`
	EmptyMarkers    []string       `hcl:"empty_markers,optional"`
	Columns         *columnsSchema `hcl:"columns,block"`
}

type columnsSchema struct {
	Code   []string `hcl:"code,optional"`
	Tariff []string `hcl:"tariff,optional"`
	Name   []string `hcl:"name,optional"`
}

// LoadFile reads path and merges it over the defaults. An empty path
// returns the defaults.
func LoadFile(path string) (Set, error) {
	if path == "" {
		return Default(), nil
	}
	var f fileSchema
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return Set{}, wrapDiagnostics(err).WithContext("path", path)
	}
	return f.merge()
}

// Parse decodes src as if read from filename. The extension selects
// native HCL (.hcl) or its JSON form (.json).
func Parse(filename string, src []byte) (Set, error) {
	var f fileSchema
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		return Set{}, wrapDiagnostics(err).WithContext("path", filename)
	}
	return f.merge()
}

func (f fileSchema) merge() (Set, error) {
	set := Default()
	set.Markers = set.Markers.Merge(tariff.Vocabulary{
		CurrencyMarkers: f.CurrencyMarkers,
		FloorMarkers:    f.FloorMarkers,
		EmptyMarkers:    f.EmptyMarkers,
	})
	if f.Columns != nil {
		set.Columns = set.Columns.Merge(schedule.ColumnKeywords{
			Code:   f.Columns.Code,
			Tariff: f.Columns.Tariff,
			Name:   f.Columns.Name,
		})
	}
	if err := set.Markers.Validate(); err != nil {
		return Set{}, errors.Vocabulary("invalid vocabulary", err)
	}
	return set, nil
}

// Classifier compiles the marker half of the set
func (s Set) Classifier() (*tariff.Classifier, error) {
	c, err := tariff.NewClassifier(s.Markers)
	if err != nil {
		return nil, errors.Vocabulary("cannot compile vocabulary", err)
	}
	return c, nil
}

func wrapDiagnostics(err error) *errors.Error {
	msg := "cannot parse vocabulary file"
	if diags, ok := err.(hcl.Diagnostics); ok && diags.HasErrors() {
		msg = diags.Errs()[0].Error()
	}
	return errors.Vocabulary(msg, err)
}
