package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trainyard/internal/config"
	"trainyard/internal/dataset"
	"trainyard/internal/eval"
	"trainyard/internal/evaluating"
	"trainyard/internal/services/inference"
)

func newPredictCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "predict <id> <image>",
		Short: "Classify one image against a run's deployed endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			run, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %d not found", id)
			}
			if run.EndpointName == "" {
				return fmt.Errorf("run %d has no deployed endpoint", id)
			}
			classes, err := run.Classes()
			if err != nil || len(classes) == 0 {
				return fmt.Errorf("run %d has no class list", id)
			}

			imagePath, err := config.ExpandPath(args[1])
			if err != nil {
				return fmt.Errorf("resolve image path: %w", err)
			}

			client, err := inference.NewClient(evaluating.EndpointURL(cfg.Endpoint, run.EndpointName), len(classes))
			if err != nil {
				return err
			}
			probs, err := client.PredictFile(cmd.Context(), imagePath)
			if err != nil {
				return err
			}

			predicted := eval.ArgMax(probs)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Prediction: %s (%.1f%%)\n", dataset.DisplayName(classes[predicted]), probs[predicted]*100)

			rows := make([][]string, 0, len(classes))
			for i, class := range classes {
				rows = append(rows, []string{
					dataset.DisplayName(class),
					fmt.Sprintf("%.4f", probs[i]),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Class", "Probability"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}
