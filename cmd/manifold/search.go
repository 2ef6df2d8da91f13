package main

import (
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <smiles>",
		Short: "Search supplier catalogs for one compound",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exactOnly, _ := cmd.Flags().GetBool("exact-only")

			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.ExactSearch(cmd.Context(), args[0], exactOnly)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().Bool("exact-only", false, "Keep only entries whose InChIKey matches exactly")
	return cmd
}

func newSearchBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search-batch [smiles...]",
		Short: "Search supplier catalogs for many compounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			smiles, err := readSMILES(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.ExactSearchBatch(cmd.Context(), smiles)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringP("file", "f", "", "Read compounds from a file, one per line (- for stdin)")
	return cmd
}
