package main

import (
	"github.com/Sternrassler/manifold-client/pkg/client"
	"github.com/spf13/cobra"
)

func newScoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <smiles>",
		Short: "Score the synthetic accessibility of one compound",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algorithm, alerts, err := scoreFlags(cmd)
			if err != nil {
				return err
			}

			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.Score(cmd.Context(), algorithm, args[0], alerts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	addScoreFlags(cmd)
	return cmd
}

func newScoreBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score-batch [smiles...]",
		Short: "Score the synthetic accessibility of many compounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			algorithm, alerts, err := scoreFlags(cmd)
			if err != nil {
				return err
			}
			file, _ := cmd.Flags().GetString("file")
			floats, _ := cmd.Flags().GetBool("floats")

			smiles, err := readSMILES(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.ScoreBatch(cmd.Context(), algorithm, smiles, alerts)
			if err != nil {
				return err
			}
			if floats {
				return writeJSON(cmd.OutOrStdout(), out.Scores())
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	addScoreFlags(cmd)
	cmd.Flags().StringP("file", "f", "", "Read compounds from a file, one per line (- for stdin)")
	cmd.Flags().Bool("floats", false, "Print only the scores, with 1.0 for compounds without a result")
	return cmd
}

func addScoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("algorithm", "a", string(client.AlgorithmFast), "Scoring model (fast, retrosynthesis)")
	cmd.Flags().Bool("alerts", false, "Request alert images (fast model only)")
}

func scoreFlags(cmd *cobra.Command) (client.Algorithm, bool, error) {
	name, _ := cmd.Flags().GetString("algorithm")
	alerts, _ := cmd.Flags().GetBool("alerts")

	algorithm, err := client.ParseAlgorithm(name)
	if err != nil {
		return "", false, err
	}
	return algorithm, alerts, nil
}
