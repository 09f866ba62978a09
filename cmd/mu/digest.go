package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDigestCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the progress digest to the configured channels now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			h, err := buildHerald(cfg, gormDB)
			if err != nil {
				return err
			}
			if h == nil {
				return fmt.Errorf("no notification channels configured; set herald.discord or herald.slack in %s", configPath)
			}
			if err := h.SendDigest(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Digest sent.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}
