package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tbryce/muster/internal/army"
)

func newArmyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "army",
		Short: "Army management commands",
	}

	cmd.AddCommand(newArmyCreateCmd())
	cmd.AddCommand(newArmyListCmd())
	cmd.AddCommand(newArmyProgressCmd())
	cmd.AddCommand(newArmyDeleteCmd())
	return cmd
}

func newArmyCreateCmd() *cobra.Command {
	var (
		configPath  string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new army",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			a, err := army.Create(gormDB, army.CreateOpts{Name: args[0], Description: description})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created army %s (%s)\n", a.ID, a.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	cmd.Flags().StringVar(&description, "description", "", "army description")
	return cmd
}

func newArmyListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all armies",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			armies, err := army.List(gormDB)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, a := range armies {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, a.Name, a.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}

func newArmyProgressCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "progress <army-id>",
		Short: "Show painting progress for an army",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			p, err := army.Summarize(gormDB, args[0], cfg.PaintStages())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d unit(s), %d/%d models painted\n", p.Name, p.UnitCount, p.PaintedModels, p.TotalModels)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, sc := range p.ByState {
				fmt.Fprintf(w, "  %s\t%d\n", sc.State, sc.Count)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}

func newArmyDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <army-id>",
		Short: "Delete an army and all its units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := army.Delete(gormDB, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted army %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}
