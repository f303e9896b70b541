package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trainyard/internal/dataset"
	"trainyard/internal/eval"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show details for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := ctx.openStore()
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
			if asJSON {
				return writeJSON(cmd, run)
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"ID", strconv.FormatInt(run.ID, 10)},
				{"Name", run.Name},
				{"Status", renderRunStatus(run.Status, shouldColorize(out))},
				{"Dataset", run.DatasetDir},
				{"Split", fmt.Sprintf("train=%.2f test=%.2f seed=%d", run.TrainRatio, run.TestRatio, run.Seed)},
				{"List dir", run.ListDir},
				{"Storage URI", run.StorageURI},
				{"Training job", run.TrainingJobName},
				{"Model artifact", run.ModelArtifactURI},
				{"Endpoint", run.EndpointName},
				{"Progress", fmt.Sprintf("%.0f%% %s", run.ProgressPercent, strings.TrimSpace(run.ProgressMessage))},
				{"Needs review", yesNo(run.NeedsReview)},
				{"Created", run.CreatedAt.Local().Format(time.DateTime)},
				{"Updated", run.UpdatedAt.Local().Format(time.DateTime)},
			}
			if strings.TrimSpace(run.ErrorMessage) != "" {
				rows = append(rows, []string{"Error", run.ErrorMessage})
			}
			if strings.TrimSpace(run.ReviewReason) != "" {
				rows = append(rows, []string{"Review reason", run.ReviewReason})
			}
			if classes, err := run.Classes(); err == nil && len(classes) > 0 {
				rows = append(rows, []string{"Classes", strings.Join(dataset.DisplayNames(classes), ", ")})
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))

			if strings.TrimSpace(run.EvalSummaryJSON) != "" {
				var summary eval.Summary
				if err := json.Unmarshal([]byte(run.EvalSummaryJSON), &summary); err != nil {
					return fmt.Errorf("decode evaluation summary: %w", err)
				}
				fmt.Fprintln(out, eval.RenderMatrix(summary))
				fmt.Fprintln(out, eval.RenderSummary(summary))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit run as JSON")
	return cmd
}
