package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tbryce/muster/internal/config"
	"github.com/tbryce/muster/internal/herald"
	"github.com/tbryce/muster/internal/herald/discord"
	"github.com/tbryce/muster/internal/herald/slack"
	"github.com/tbryce/muster/internal/server"
	"github.com/tbryce/muster/internal/unit"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Muster API server",
		Long:  "Starts the HTTP API, heals any corrupted stored records, and schedules the progress digest.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}

			stages := cfg.PaintStages()

			// Heal anything that drifted while we were not looking.
			repaired, err := unit.RepairAll(gormDB, stages)
			if err != nil {
				return err
			}
			if repaired > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Repaired %d stored record(s) on load.\n", repaired)
			}

			h, err := buildHerald(cfg, gormDB)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if h != nil {
				go h.RunDigestLoop(ctx, cfg.Herald.DigestCron)
			}

			if port == 0 {
				port = cfg.Server.Port
			}
			return server.Start(ctx, server.StartOpts{
				DB:     gormDB,
				Stages: stages,
				Herald: h,
				Port:   port,
				Out:    cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

// buildHerald wires up the configured notifiers. Returns nil when none
// are configured.
func buildHerald(cfg *config.Config, gormDB *gorm.DB) (*herald.Herald, error) {
	var notifiers []herald.Notifier

	if cfg.Herald.Discord.Token != "" {
		n, err := discord.New(cfg.Herald.Discord.Token, cfg.Herald.Discord.ChannelID)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}
	if cfg.Herald.Slack.Token != "" {
		n, err := slack.New(cfg.Herald.Slack.Token, cfg.Herald.Slack.ChannelID)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}

	if len(notifiers) == 0 {
		return nil, nil
	}
	return herald.New(gormDB, cfg.PaintStages(), notifiers...), nil
}
