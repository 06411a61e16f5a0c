package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tnved-tariffs/core/output"
	"tnved-tariffs/core/tariff"
	"tnved-tariffs/internal/config"
)

// resetFlags restores every flag so tests do not leak state through the
// package-level command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { config.Set(config.Default()) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "schedule.csv")
	result := filepath.Join(dir, "out", "records.json")
	require.NoError(t, os.WriteFile(input, []byte("0101210000;12%\n0102310000;-\nbad_code;5 EUR\n"), 0644))

	out, err := execute(t, "parse", "--output", result, input)
	require.NoError(t, err)

	assert.Contains(t, out, "Layout:   delimited(;)")
	assert.Contains(t, out, "Records:  2")
	assert.Contains(t, out, "Dropped:  1")
	assert.Contains(t, out, "1. Code: 0101210000, Tariff: 12%")

	rows, err := output.ReadFile(result)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, tariff.KindAdvalorem, rows[0].Tariff.Kind)
	assert.Equal(t, tariff.KindUnknown, rows[1].Tariff.Kind)
}

func TestParseCommandPreviewLimit(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "schedule.csv")
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("010121000")
		b.WriteByte(byte('0' + i))
		b.WriteString(";5%\n")
	}
	require.NoError(t, os.WriteFile(input, []byte(b.String()), 0644))

	out, err := execute(t, "parse", "-o", filepath.Join(dir, "r.json"), input)
	require.NoError(t, err)
	assert.Contains(t, out, "First 5 records:")
	assert.Contains(t, out, "5. Code: 0101210004")
	assert.NotContains(t, out, "6. Code:")
}

func TestParseCommandWritesEmptyArrayWhenNothingFits(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "blank.txt")
	result := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(input, []byte("\n\n"), 0644))

	out, err := execute(t, "parse", "--output", result, input)
	require.NoError(t, err)
	assert.Contains(t, out, "Layout:   none")

	data, err := os.ReadFile(result)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestParseCommandMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "parse", "-o", filepath.Join(dir, "r.json"), filepath.Join(dir, "absent.csv"))
	assert.Error(t, err)
}

func TestParseCommandVocabularyFile(t *testing.T) {
	dir := t.TempDir()
	vocab := filepath.Join(dir, "markers.hcl")
	require.NoError(t, os.WriteFile(vocab, []byte(`
currency_markers = ["USD"]
columns {
  tariff = ["clo"]
}
`), 0644))
	input := filepath.Join(dir, "schedule.csv")
	require.NoError(t, os.WriteFile(input, []byte("hs|note|clo\n0101210000|x|4 USD\n"), 0644))
	result := filepath.Join(dir, "r.json")

	_, err := execute(t, "parse", "--vocabulary", vocab, "-o", result, input)
	require.NoError(t, err)

	rows, err := output.ReadFile(result)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "4 USD", rows[0].TariffRaw)
	assert.Equal(t, tariff.KindSpecific, rows[0].Tariff.Kind)
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "classify", "5% + 2 EUR", "—")
	require.NoError(t, err)

	var recs []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "combined", recs[0]["type"])
	assert.Equal(t, "5% + 2 EUR", recs[0]["raw"])
	assert.Equal(t, map[string]interface{}{"type": "unknown", "raw": ""}, recs[1])
}

func TestClassifyCommandCLIFormat(t *testing.T) {
	out, err := execute(t, "classify", "--format", "cli", "7")
	require.NoError(t, err)
	assert.Equal(t, "\"7\": unknown_numeric 7\n", out)

	_, err = execute(t, "classify", "--format", "xml", "7")
	assert.Error(t, err)
}

func TestClassifyCommandLabelsVocabularyCurrency(t *testing.T) {
	vocab := filepath.Join(t.TempDir(), "markers.hcl")
	require.NoError(t, os.WriteFile(vocab, []byte(`currency_markers = ["USD"]`), 0644))

	out, err := execute(t, "--vocabulary", vocab, "classify", "--format", "cli", "4 USD")
	require.NoError(t, err)
	assert.Equal(t, "\"4 USD\": specific 4 USD\n", out)
}

func TestStatsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"code":"0101","name":"","tariff_raw":"5%","tariff_parsed":{"type":"advalorem","raw":"5%","advalorem_percent":5}},
		{"code":"0102","name":"","tariff_raw":"7%","tariff_parsed":{"type":"advalorem","raw":"7%","advalorem_percent":7}},
		{"code":"0103","name":"","tariff_raw":"","tariff_parsed":{"type":"unknown","raw":""}}
	]`), 0644))

	out, err := execute(t, "stats", path)
	require.NoError(t, err)
	assert.Equal(t, "advalorem            2\nunknown              1\ntotal                3\n", out)

	out, err = execute(t, "stats", "--all", path)
	require.NoError(t, err)
	assert.Equal(t, "unknown              1\n"+
		"advalorem            2\n"+
		"specific             0\n"+
		"combined             0\n"+
		"combined_with_floor  0\n"+
		"unknown_numeric      0\n"+
		"total                3\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tnved version "+Version+"\n", out)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tnved.json")
	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, *config.Default(), cfg)
}
