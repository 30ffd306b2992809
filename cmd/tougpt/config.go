package main

import (
	"encoding/json"
	"fmt"

	"tougpt/pkg/logging"
	"tougpt/pkg/settings"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration with secrets masked",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := a.cfg
				cfg.APIKey = logging.MaskSecret(cfg.APIKey)
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-key <key>",
			Short: "Save the API key sent with every question",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withManager(cmd, func() error {
					key := args[0]
					if err := a.prefs.SetAPIKey(cmd.Context(), key); err != nil {
						return fmt.Errorf("failed to save API key: %w", err)
					}
					if key != "" && !settings.LooksValidAPIKey(key) {
						fmt.Fprintln(cmd.ErrOrStderr(), "Warning: the key does not look like a valid API key.")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "API key saved (%s).\n", logging.MaskSecret(key))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set-theme <light|dark>",
			Short: "Save the interface theme",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				theme, err := settings.ParseTheme(args[0])
				if err != nil {
					return err
				}
				return a.withManager(cmd, func() error {
					if err := a.prefs.SetTheme(cmd.Context(), theme); err != nil {
						return fmt.Errorf("failed to save theme: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", theme)
					return nil
				})
			},
		},
	)
	return cmd
}
