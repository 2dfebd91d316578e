package main

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/petasbytes/csv-agent/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or save csvagent configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := cfgpkg.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := cfgFile
		if path == "" {
			p, err := cfgpkg.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		if err := cfgpkg.Save(cfg, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved config to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd)
}
