// Package cmd - stats command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tnved-tariffs/core/output"
	"tnved-tariffs/internal/config"
)

var statsAll bool

// statsCmd summarizes a records file by tariff kind
var statsCmd = &cobra.Command{
	Use:   "stats [records.json]",
	Short: "Count parsed records by tariff kind",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Get().Output.Path
		if len(args) > 0 {
			path = args[0]
		}

		rows, err := output.ReadFile(path)
		if err != nil {
			return err
		}

		counts := output.CountKinds(rows)
		if statsAll {
			counts = output.CountAllKinds(rows)
		}

		w := cmd.OutOrStdout()
		if err := output.RenderCounts(w, counts); err != nil {
			return err
		}
		fmt.Fprintf(w, "%-20s %d\n", "total", len(rows))
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsAll, "all", false, "list every kind, including those with no records")
}
