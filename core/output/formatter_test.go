package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tnved-tariffs/core/schedule"
	"tnved-tariffs/core/tariff"
)

func sampleRows() []schedule.CommodityRow {
	row := func(code, name, raw string) schedule.CommodityRow {
		return schedule.CommodityRow{Code: code, Name: name, TariffRaw: raw, Tariff: tariff.Classify(raw)}
	}
	return []schedule.CommodityRow{
		row("0101210000", "Лошади", "5%"),
		row("0102310000", "", "-"),
		row("0201100000", "Туши", "15%, но не менее 0,2 евро за 1 кг"),
		row("0301110000", "", "7"),
		row("0302110000", "", "12%"),
	}
}

func TestJSONFormatterOmitsAbsentFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONFormatter{}.Render(&buf, sampleRows()[:2]))

	assert.JSONEq(t, `[
		{"code":"0101210000","name":"Лошади","tariff_raw":"5%",
		 "tariff_parsed":{"type":"advalorem","raw":"5%","advalorem_percent":5}},
		{"code":"0102310000","name":"","tariff_raw":"-",
		 "tariff_parsed":{"type":"unknown","raw":""}}
	]`, buf.String())
	assert.Contains(t, buf.String(), "Лошади", "non-ASCII must not be escaped")
	assert.NotContains(t, buf.String(), "null")
}

func TestJSONFormatterEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONFormatter{}.Render(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tnved_data.json")
	rows := sampleRows()

	require.NoError(t, WriteFile(path, rows))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {")

	back, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, back, len(rows))
	assert.Equal(t, tariff.KindCombinedWithFloor, back[2].Tariff.Kind)
	assert.Equal(t, "0.2", back[2].Tariff.MinimumFee.String())
	assert.Nil(t, back[0].Tariff.SpecificFee)
}

func TestReadFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := ReadFile(path)
	assert.Error(t, err)
}

func TestCLIFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CLIFormatter{Currency: "EUR"}.Render(&buf, sampleRows()[2:3]))
	assert.Equal(t,
		"1. Code: 0201100000, Tariff: 15%, но не менее 0,2 евро за 1 кг\n"+
			"   Parsed: combined_with_floor 15% + 0.2 EUR min 0.2 EUR\n",
		buf.String())
}

func TestForFormat(t *testing.T) {
	vocab := tariff.Vocabulary{CurrencyMarkers: []string{" ", "USD"}, FloorMarkers: []string{"min"}}
	f, err := ForFormat(FormatCLI, vocab)
	require.NoError(t, err)
	assert.Equal(t, FormatCLI, f.Format())
	assert.Equal(t, CLIFormatter{Currency: "USD"}, f)

	f, err = ForFormat("", vocab)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f.Format())

	_, err = ForFormat("html", vocab)
	assert.Error(t, err)
}

func TestDescribeCurrencyLabel(t *testing.T) {
	rec := tariff.Classify("5% + 3 EUR")
	assert.Equal(t, "combined 5% + 3 EUR", Describe(rec, "EUR"))
	assert.Equal(t, "combined 5% + 3 USD", Describe(rec, "USD"))
	assert.Equal(t, "combined 5% + 3", Describe(rec, ""))
}

func TestRenderRecords(t *testing.T) {
	recs := []tariff.Record{tariff.Classify("12%"), tariff.Classify("7")}

	var buf bytes.Buffer
	require.NoError(t, JSONFormatter{}.RenderRecords(&buf, recs))
	assert.JSONEq(t, `[
		{"type":"advalorem","raw":"12%","advalorem_percent":12},
		{"type":"unknown_numeric","raw":"7","value":7}
	]`, buf.String())

	buf.Reset()
	require.NoError(t, JSONFormatter{}.RenderRecords(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, CLIFormatter{}.RenderRecords(&buf, recs))
	assert.Equal(t, "\"12%\": advalorem 12%\n\"7\": unknown_numeric 7\n", buf.String())
}

func TestCountKinds(t *testing.T) {
	counts := CountKinds(sampleRows())
	assert.Equal(t, []KindCount{
		{Kind: tariff.KindAdvalorem, Count: 2},
		{Kind: tariff.KindUnknown, Count: 1},
		{Kind: tariff.KindCombinedWithFloor, Count: 1},
		{Kind: tariff.KindUnknownNumeric, Count: 1},
	}, counts)

	var buf bytes.Buffer
	require.NoError(t, RenderCounts(&buf, counts[:1]))
	assert.Equal(t, "advalorem            2\n", buf.String())
}

func TestCountAllKinds(t *testing.T) {
	counts := CountAllKinds(sampleRows()[:2])
	require.Len(t, counts, len(tariff.Kinds()))
	for i, k := range tariff.Kinds() {
		assert.Equal(t, k, counts[i].Kind)
	}
	assert.Equal(t, KindCount{Kind: tariff.KindUnknown, Count: 1}, counts[0])
	assert.Equal(t, KindCount{Kind: tariff.KindAdvalorem, Count: 1}, counts[1])
	assert.Equal(t, KindCount{Kind: tariff.KindSpecific, Count: 0}, counts[2])
}
