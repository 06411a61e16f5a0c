// Package cmd - parse command
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tnved-tariffs/core/output"
	"tnved-tariffs/core/schedule"
	"tnved-tariffs/internal/config"
	"tnved-tariffs/internal/errors"
	"tnved-tariffs/internal/logging"
)

var (
	parseOutput     string
	parseWorkers    int
	parseEncoding   string
	parseDelimiters []string
	parsePreview    int
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [input]",
	Short: "Extract commodity codes and classify their tariffs",
	Long: `Read a schedule file, locate the code, tariff and name columns, and
write the classified records as a JSON array.

The file may be an Excel workbook, delimited text, a fixed-width report or
free text with one commodity per line. Each layout is tried in turn and
the first that yields a table is used.

Examples:
  tnved parse
  tnved parse schedule.xlsx
  tnved parse --delimiter ';' --encoding windows-1251 legacy.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "output JSON file (default from config)")
	parseCmd.Flags().IntVarP(&parseWorkers, "workers", "w", 0, "classification workers (default GOMAXPROCS)")
	parseCmd.Flags().StringVar(&parseEncoding, "encoding", "", "input encoding: auto, utf-8, windows-1251, ...")
	parseCmd.Flags().StringArrayVarP(&parseDelimiters, "delimiter", "d", nil, "delimiter to try, repeatable (default , ; tab |)")
	parseCmd.Flags().IntVar(&parsePreview, "preview", 0, "records to print after parsing (default from config)")
}

// parseSettings merges flags over the loaded configuration
func parseSettings(cmd *cobra.Command, args []string) config.Config {
	cfg := *config.Get()
	if len(args) > 0 {
		cfg.Input.Path = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Path = parseOutput
	}
	if flags.Changed("workers") {
		cfg.Ingest.Workers = parseWorkers
	}
	if flags.Changed("encoding") {
		cfg.Input.Encoding = parseEncoding
	}
	if flags.Changed("delimiter") {
		cfg.Ingest.Delimiters = parseDelimiters
	}
	if flags.Changed("preview") {
		cfg.Output.Preview = parsePreview
	}
	return cfg
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	startTime := time.Now()
	cfg := parseSettings(cmd, args)

	set, err := loadVocabulary()
	if err != nil {
		return err
	}
	classifier, err := set.Classifier()
	if err != nil {
		return err
	}

	ingester, err := schedule.NewIngester(classifier, schedule.Options{
		Delimiters: cfg.Ingest.Delimiters,
		SampleRows: cfg.Ingest.SampleRows,
		Workers:    cfg.Ingest.Workers,
		Encoding:   cfg.Input.Encoding,
		Keywords:   set.Columns,
		Logger:     logging.Named("schedule"),
	})
	if err != nil {
		return err
	}

	logging.Info("Parsing schedule", zap.String("input", cfg.Input.Path))

	result, err := ingester.Ingest(ctx, cfg.Input.Path)
	if err != nil {
		// no layout fit: an empty record set is still written
		if result == nil || !errors.IsType(err, errors.TypeFormat) {
			return err
		}
		logging.Warn("No table recognized, writing empty output", zap.Error(err))
	}

	if err := output.WriteFile(cfg.Output.Path, result.Rows); err != nil {
		return err
	}

	logging.Info("Parse complete",
		zap.String("run_id", result.RunID.String()),
		zap.String("digest", result.Digest),
		zap.Int("records", len(result.Rows)),
		zap.Int("dropped", result.Dropped),
		zap.Duration("duration", time.Since(startTime)),
	)

	w := cmd.OutOrStdout()
	strategy := result.Strategy
	if strategy == "" {
		strategy = "none"
	}
	fmt.Fprintf(w, "Layout:   %s\n", strategy)
	fmt.Fprintf(w, "Records:  %d\n", len(result.Rows))
	fmt.Fprintf(w, "Dropped:  %d\n", result.Dropped)
	fmt.Fprintf(w, "Saved to: %s\n", cfg.Output.Path)

	preview := result.Rows
	if len(preview) > cfg.Output.Preview {
		preview = preview[:cfg.Output.Preview]
	}
	if len(preview) == 0 {
		return nil
	}
	listing, err := output.ForFormat(output.FormatCLI, classifier.Vocabulary())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nFirst %d records:\n", len(preview))
	return listing.Render(w, preview)
}
