// Package cmd - classify command
package cmd

import (
	"github.com/spf13/cobra"

	"tnved-tariffs/core/output"
	"tnved-tariffs/core/tariff"
)

var classifyFormat string

// classifyCmd classifies tariff expressions given on the command line
var classifyCmd = &cobra.Command{
	Use:   "classify <expression>...",
	Short: "Classify tariff expressions",
	Long: `Classify each argument as a tariff expression and print the records.

Examples:
  tnved classify "5%"
  tnved classify --format cli "10% + 3 EUR" "-"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyFormat, "format", "f", "json", "output format (json, cli)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	set, err := loadVocabulary()
	if err != nil {
		return err
	}
	classifier, err := set.Classifier()
	if err != nil {
		return err
	}

	formatter, err := output.ForFormat(output.Format(classifyFormat), classifier.Vocabulary())
	if err != nil {
		return err
	}

	recs := make([]tariff.Record, 0, len(args))
	for _, text := range args {
		recs = append(recs, classifier.Classify(text))
	}
	return formatter.RenderRecords(cmd.OutOrStdout(), recs)
}
