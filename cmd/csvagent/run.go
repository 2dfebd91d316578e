package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petasbytes/csv-agent/internal/ingest"
)

var runCmd = &cobra.Command{
	Use:   "run [file.csv...]",
	Short: "Analyze CSV files once and record the answers",
	Long: `Analyze the named CSV files (paths relative to the input directory), or every
*.csv in the input directory when none are named. Answers are printed and appended
to the results file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, w, err := newPipeline(cmd.Context())
		if err != nil {
			return err
		}
		files := args
		if len(files) == 0 {
			if files, err = w.Scan(); err != nil {
				return err
			}
		}
		if len(files) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No CSV files in %s\n", p.FS.ReadRoot)
			return nil
		}

		failed := 0
		for _, rec := range p.ProcessAll(cmd.Context(), files) {
			fmt.Fprintf(cmd.OutOrStdout(), "== %s (%s)\n", rec.File, rec.Status)
			if rec.Response != "" {
				fmt.Fprintln(cmd.OutOrStdout(), rec.Response)
			}
			if rec.Status == ingest.StatusError || rec.Status == ingest.StatusTimeout {
				failed++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results appended to %s\n", p.Out.Path())
		if failed > 0 {
			return fmt.Errorf("%d of %d runs failed", failed, len(files))
		}
		return nil
	},
}
