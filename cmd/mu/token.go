package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tbryce/muster/internal/config"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

func newTokenCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "token [discord|slack|github]",
		Short: "Store an API token in the config file without echoing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := strings.ToLower(args[0])
			switch service {
			case "discord", "slack", "github":
			default:
				return fmt.Errorf("unknown service %q, expected discord, slack, or github", service)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return err
				}
				cfg = config.Default()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Enter %s token: ", service)
			token, err := readToken(cmd)
			if err != nil {
				return fmt.Errorf("read token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			if token == "" {
				return fmt.Errorf("token cannot be empty")
			}

			switch service {
			case "discord":
				cfg.Herald.Discord.Token = token
			case "slack":
				cfg.Herald.Slack.Token = token
			case "github":
				cfg.Publish.Token = token
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			if err := os.WriteFile(configPath, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", configPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s token to %s\n", service, configPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Muster config file")
	return cmd
}

// readToken reads a token without echo when stdin is a terminal, and
// falls back to a plain line read otherwise so it stays scriptable.
func readToken(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	var line string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
