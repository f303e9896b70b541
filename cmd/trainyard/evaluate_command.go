package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"trainyard/internal/dataset"
	"trainyard/internal/eval"
	"trainyard/internal/evaluating"
	"trainyard/internal/logging"
	"trainyard/internal/queue"
)

func newEvaluateCommand(ctx *commandContext) *cobra.Command {
	var rerun bool

	cmd := &cobra.Command{
		Use:   "evaluate <id>",
		Short: "Show or recompute a run's confusion matrix",
		Args:  cobra.ExactArgs(1),
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

			if rerun {
				handler := evaluating.NewEvaluator(cfg, store, logging.NewNop())
				if err := handler.Execute(cmd.Context(), run); err != nil {
					return err
				}
				if run.Status == queue.StatusEvaluating || run.Status == queue.StatusDeployed {
					run.Status = queue.StatusCompleted
				}
				if err := store.Update(cmd.Context(), run); err != nil {
					return fmt.Errorf("persist evaluation: %w", err)
				}
			}

			if strings.TrimSpace(run.EvalSummaryJSON) == "" {
				return fmt.Errorf("run %d has no evaluation yet (use --rerun against a deployed endpoint)", id)
			}
			var summary eval.Summary
			if err := json.Unmarshal([]byte(run.EvalSummaryJSON), &summary); err != nil {
				return fmt.Errorf("decode evaluation summary: %w", err)
			}

			out := cmd.OutOrStdout()
			if classes, err := run.Classes(); err == nil && len(classes) > 0 {
				fmt.Fprintf(out, "Classes: %s\n", strings.Join(dataset.DisplayNames(classes), ", "))
			}
			fmt.Fprintln(out, eval.RenderMatrix(summary))
			fmt.Fprintln(out, eval.RenderSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&rerun, "rerun", false, "Query the deployed endpoint again instead of showing the stored summary")
	return cmd
}
