package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/petasbytes/csv-agent/internal/config"
	"github.com/petasbytes/csv-agent/internal/logging"
)

var (
	cfgFile string
	debug   bool
	// Overrides (applied only when set)
	flagProvider string
	flagModel    string
	flagInputDir string
	flagOutput   string

	// Loaded configuration and logger
	cfg    *cfgpkg.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "csvagent",
	Short: "Analyze CSV files with a tool-using LLM agent",
	Long: `csvagent runs a ReAct loop over CSV data: the model reasons about the data and
calls analyze_csv_data and filter_data until it can write its report.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ~/.csvagent/config.yaml)")
	f.BoolVar(&debug, "debug", false, "enable debug logging")
	f.StringVar(&flagProvider, "provider", "", "model backend: anthropic, gemini, openai or ollama (overrides config)")
	f.StringVar(&flagModel, "model", "", "model name (overrides config)")
	f.StringVar(&flagInputDir, "input-dir", "", "directory holding the CSV inputs (overrides config)")
	f.StringVar(&flagOutput, "output", "", "results CSV file (overrides config)")

	rootCmd.AddCommand(runCmd, watchCmd, toolCmd, configCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("provider") {
		c.Provider = flagProvider
	}
	if f.Changed("model") {
		c.Model = flagModel
	}
	if f.Changed("input-dir") {
		c.InputDir = flagInputDir
	}
	if f.Changed("output") {
		c.OutputFile = flagOutput
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	logger = logging.New(os.Stderr, debug)
	return nil
}
