package main

import (
	"context"
	"fmt"
	"time"

	"tougpt/pkg/api"

	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the Q&A server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
			defer cancel()

			client := api.NewClient(a.cfg.ServerURL)
			client.Logger = a.logger
			status, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("server %s is not reachable: %w", a.cfg.ServerURL, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "server:     %s\n", a.cfg.ServerURL)
			fmt.Fprintf(out, "status:     %s\n", status.Status)
			if status.Version != "" {
				fmt.Fprintf(out, "version:    %s\n", status.Version)
			}
			fmt.Fprintf(out, "cache size: %d\n", status.CacheSize)
			if status.Timestamp > 0 {
				ts := time.Unix(int64(status.Timestamp), 0)
				fmt.Fprintf(out, "time:       %s\n", ts.Format(time.RFC3339))
			}
			if !status.Healthy() {
				return fmt.Errorf("server reported status %q", status.Status)
			}
			return nil
		},
	}
}
