// Package cmd provides the CLI commands for tnved.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tnved-tariffs/adapters/vocabulary"
	"tnved-tariffs/internal/config"
	"tnved-tariffs/internal/logging"
)

// Version is overridden at build time with -ldflags
var Version = "0.1.0"

var (
	cfgFile   string
	vocabFile string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tnved",
	Short: "Extract and classify customs tariff rates",
	Long: `tnved reads a commodity schedule in whatever tabular shape it arrives in
and classifies each tariff expression into a structured record.

Examples:
  tnved parse
  tnved parse --output rates.json TWS_TNVED_2025-05-18.csv
  tnved classify "15%, но не менее 0,2 евро за 1 кг"
  tnved stats tnved_data.json`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// ExecuteContext runs the CLI with a cancellable context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tnved.yaml or $HOME/.tnved/tnved.yaml)")
	rootCmd.PersistentFlags().StringVar(&vocabFile, "vocabulary", "", "HCL file overriding currency, floor and column keywords")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("vocabulary") {
		cfg.Vocabulary.Path = vocabFile
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	return nil
}

// loadVocabulary reads the configured marker file, if any
func loadVocabulary() (vocabulary.Set, error) {
	path := config.Get().Vocabulary.Path
	set, err := vocabulary.LoadFile(path)
	if err != nil {
		return vocabulary.Set{}, err
	}
	if path != "" {
		logging.Debug("Loaded vocabulary", zap.String("path", path))
	}
	return set, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tnved version %s\n", Version)
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(config.Get())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "tnved.json"
		if len(args) > 0 {
			path = args[0]
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}
