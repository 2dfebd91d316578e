package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petasbytes/csv-agent/internal/runner"
	"github.com/petasbytes/csv-agent/memory"
	"github.com/petasbytes/csv-agent/tools"
)

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Run an analysis tool directly, without a model",
}

var toolAnalyzeCmd = &cobra.Command{
	Use:   "analyze <file.csv> <query>",
	Short: "Run analyze_csv_data (summary, describe <column>, correlation)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, args[0], tools.AnalyzeCSVData, map[string]any{"query": args[1]})
	},
}

var toolFilterCmd = &cobra.Command{
	Use:   "filter <file.csv> <column> <operator> <value>",
	Short: "Run filter_data and print the matching rows as CSV",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, args[0], tools.FilterData, map[string]any{
			"column_name": args[1],
			"operator":    args[2],
			"value":       args[3],
		})
	},
}

func init() {
	toolCmd.AddCommand(toolAnalyzeCmd, toolFilterCmd)
}

var errToolFailed = errors.New("tool reported an error")

func runTool(cmd *cobra.Command, path string, name tools.Name, args map[string]any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out := runner.Dispatch(cmd.Context(), tools.Registry(), memory.ToolCall{ID: "cli", Name: string(name), Arguments: args}, string(b))
	fmt.Fprintln(cmd.OutOrStdout(), out.Content)
	if out.IsError {
		return errToolFailed
	}
	return nil
}
