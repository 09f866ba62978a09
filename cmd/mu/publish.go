package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tbryce/muster/internal/publish"
)

func newPublishCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Commit a progress snapshot to the configured GitHub repo",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			p, err := publish.New(cfg.Publish)
			if err != nil {
				return err
			}
			if _, err := p.Publish(cmd.Context(), gormDB, cfg.PaintStages()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published snapshot to %s/%s:%s\n",
				cfg.Publish.Owner, cfg.Publish.Repo, cfg.Publish.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}
