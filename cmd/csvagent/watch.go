package main

import (
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Analyze existing and newly arriving CSV files until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, w, err := newPipeline(cmd.Context())
		if err != nil {
			return err
		}
		return p.Run(cmd.Context(), w)
	},
}
