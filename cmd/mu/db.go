package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tbryce/muster/internal/config"
	"github.com/tbryce/muster/internal/db"
	"github.com/tbryce/muster/internal/unit"
	"gorm.io/gorm"
)

const defaultConfigPath = "muster.yaml"

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBRepairCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or migrate the Muster database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(gormDB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database ready.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}

func newDBRepairCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Heal stored records that drifted outside the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			repaired, err := unit.RepairAll(gormDB, cfg.PaintStages())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Repaired %d record(s).\n", repaired)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}

// connectFromConfig loads the config, opens the database and runs the
// migrations so every command sees current tables.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return nil, nil, err
	}

	return cfg, gormDB, nil
}
