package main

import (
	"errors"
	"fmt"

	"github.com/Sternrassler/manifold-client/pkg/store"
	"github.com/spf13/cobra"
)

func newRunsCmd(a *app) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded runs",
	}

	runsCmd.AddCommand(&cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := a.runStore(cmd.Context())
			if err != nil {
				return err
			}
			if runs == nil {
				return fmt.Errorf("run store is not configured (set MANIFOLD_REDIS_ADDR or --redis-addr)")
			}

			run, err := runs.Run(cmd.Context(), args[0])
			if errors.Is(err, store.ErrRunNotFound) {
				return fmt.Errorf("run %s: %w", args[0], err)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), run)
		},
	})

	return runsCmd
}
