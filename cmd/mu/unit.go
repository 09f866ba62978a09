package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tbryce/muster/internal/models"
	"github.com/tbryce/muster/internal/roster"
	"github.com/tbryce/muster/internal/unit"
)

func newUnitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Unit management commands",
	}

	cmd.AddCommand(newUnitAddCmd())
	cmd.AddCommand(newUnitListCmd())
	cmd.AddCommand(newUnitShowCmd())
	cmd.AddCommand(newUnitProgressCmd())
	cmd.AddCommand(newUnitStateCmd())
	cmd.AddCommand(newUnitDeleteCmd())
	return cmd
}

func newUnitAddCmd() *cobra.Command {
	var (
		configPath string
		armyID     string
		category   string
		modelCount int
		details    string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a single unit manually",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			u, err := unit.Create(gormDB, roster.DraftEntry{
				Name:       args[0],
				Category:   category,
				ModelCount: modelCount,
				Details:    details,
				Command:    roster.DefaultManualCommand(),
			}, armyID, cfg.PaintStages())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created unit %s (%s)\n", u.ID, u.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	cmd.Flags().StringVar(&armyID, "army", "", "army ID to attach the unit to")
	cmd.Flags().StringVar(&category, "category", models.CategoryUnit, "Unit or Character")
	cmd.Flags().IntVar(&modelCount, "models", 1, "number of models in the unit")
	cmd.Flags().StringVar(&details, "details", "", "free-text upgrade/equipment notes")
	return cmd
}

func newUnitListCmd() *cobra.Command {
	var (
		configPath string
		armyID     string
		state      string
		category   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List units",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			units, err := unit.List(gormDB, unit.ListFilters{ArmyID: armyID, State: state, Category: category})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSTATE\tPROGRESS")
			for _, u := range units {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\n", u.ID, u.Name, u.Category, u.State, u.ProgressCount, u.ModelCount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	cmd.Flags().StringVar(&armyID, "army", "", "filter by army ID")
	cmd.Flags().StringVar(&state, "state", "", "filter by painting stage")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	return cmd
}

func newUnitShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <unit-id>",
		Short: "Show one unit in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			u, err := unit.Get(gormDB, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s (%s)\n", u.ID, u.Name, u.Category)
			if u.Faction != "" {
				fmt.Fprintf(out, "Army: %s\n", u.Faction)
			}
			fmt.Fprintf(out, "Stage: %s  Progress: %d/%d\n", u.State, u.ProgressCount, u.ModelCount)
			if u.Champion > 0 || u.Musician > 0 || u.BannerBearer > 0 {
				fmt.Fprintf(out, "Command: %s\n", formatCommand(roster.CommandComposition{
					Champion: u.Champion, Musician: u.Musician, BannerBearer: u.BannerBearer,
				}))
			}
			if u.Details != "" {
				fmt.Fprintf(out, "Details:\n%s\n", u.Details)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}

func newUnitProgressCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "progress <unit-id> <count>",
		Short: "Set how many models of a unit are complete",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("count must be an integer: %q", args[1])
			}
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			u, err := unit.Update(gormDB, args[0], roster.TransitionRequest{ProgressCount: &count}, cfg.PaintStages())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d models\n", u.Name, u.ProgressCount, u.ModelCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}

func newUnitStateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "state <unit-id> <stage>",
		Short: "Move a unit to another painting stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			state := args[1]
			u, err := unit.Update(gormDB, args[0], roster.TransitionRequest{State: &state}, cfg.PaintStages())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Name, u.State)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}

func newUnitDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <unit-id>",
		Short: "Delete a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := unit.Delete(gormDB, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted unit %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}
