package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tbryce/muster/internal/roster"
	"github.com/tbryce/muster/internal/unit"
)

func newImportCmd() *cobra.Command {
	var (
		configPath string
		armyID     string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import an army list pasted from a list builder",
		Long:  "Parses a list-builder text export into units. Reads from the given file, or stdin when no file is named. The batch is all-or-nothing.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read %s: %w", args[0], err)
				}
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			res := roster.ParseList(string(raw))
			out := cmd.OutOrStdout()
			if res.ArmyName != "" {
				fmt.Fprintf(out, "List: %s\n", res.ArmyName)
			}
			if len(res.Entries) == 0 {
				return fmt.Errorf("no entries recognized in the input")
			}

			if dryRun {
				printEntries(out, res.Entries)
				return nil
			}

			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			units, err := unit.Import(gormDB, res.Entries, armyID, cfg.PaintStages())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d unit(s).\n", len(units))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	cmd.Flags().StringVar(&armyID, "army", "", "army ID to attach the units to")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the parsed entries without storing them")
	return cmd
}

func printEntries(out io.Writer, entries []roster.DraftEntry) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tNAME\tMODELS\tCOMMAND")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Category, e.Name, e.ModelCount, formatCommand(e.Command))
	}
	w.Flush()
}

func formatCommand(c roster.CommandComposition) string {
	s := ""
	if c.Champion > 0 {
		s += "champion "
	}
	if c.Musician > 0 {
		s += "musician "
	}
	if c.BannerBearer > 0 {
		s += "banner "
	}
	if s == "" {
		return "-"
	}
	return s[:len(s)-1]
}
