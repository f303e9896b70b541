package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trainyard/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "List queued runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var statuses []queue.Status
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				for _, raw := range strings.Split(trimmed, ",") {
					status, ok := queue.ParseStatus(raw)
					if !ok {
						return fmt.Errorf("unknown status %q", raw)
					}
					statuses = append(statuses, status)
				}
			}

			runs, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
				return nil
			}

			colorize := shouldColorize(cmd.OutOrStdout())
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				progress := strings.TrimSpace(run.ProgressMessage)
				if progress == "" {
					progress = strings.TrimSpace(run.ProgressStage)
				}
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					run.Name,
					renderRunStatus(run.Status, colorize),
					fmt.Sprintf("%.0f%%", run.ProgressPercent),
					progress,
					run.UpdatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Status", "Progress", "Message", "Updated"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))

			health, err := store.Health(cmd.Context())
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderHealthLine(health, colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit runs as JSON")
	cmd.Flags().StringVar(&statusFilter, "status", "", "Comma-separated status filter")
	return cmd
}

func newRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [id...]",
		Short: "Requeue failed runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			count, err := store.RetryFailed(cmd.Context(), ids...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d run(s)\n", count)
			return nil
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a run from the queue",
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
			removed, err := store.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("run %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed run %d\n", id)
			return nil
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	var failed bool
	var completed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear runs from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var count int64
			switch {
			case failed:
				count, err = store.ClearFailed(cmd.Context())
			case completed:
				count, err = store.ClearCompleted(cmd.Context())
			default:
				count, err = store.Clear(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d run(s)\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&failed, "failed", false, "Clear only failed runs")
	cmd.Flags().BoolVar(&completed, "completed", false, "Clear only completed runs")
	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
