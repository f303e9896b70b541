package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"trainyard/internal/config"
	"trainyard/internal/dataset"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var trainRatio float64
	var testRatio float64
	var seed uint64

	cmd := &cobra.Command{
		Use:   "add <name> <dataset-dir>",
		Short: "Queue a dataset directory for the training pipeline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("run name must not be empty")
			}
			datasetDir, err := config.ExpandPath(args[1])
			if err != nil {
				return fmt.Errorf("resolve dataset path: %w", err)
			}
			info, err := os.Stat(datasetDir)
			if err != nil {
				return fmt.Errorf("inspect dataset path %q: %w", datasetDir, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("dataset path %q is not a directory", datasetDir)
			}

			if !cmd.Flags().Changed("train-ratio") {
				trainRatio = cfg.Dataset.TrainRatio
			}
			if !cmd.Flags().Changed("test-ratio") {
				testRatio = cfg.Dataset.TestRatio
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Dataset.Seed
			}

			classes, samples, err := dataset.Scan(datasetDir)
			if err != nil {
				return fmt.Errorf("scan dataset: %w", err)
			}
			if len(classes) == 0 {
				return fmt.Errorf("dataset %q contains no class folders with images", datasetDir)
			}

			run, err := store.NewRun(cmd.Context(), name, datasetDir, trainRatio, testRatio, seed)
			if err != nil {
				return fmt.Errorf("queue run: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Queued run %d (%s)\n", run.ID, run.Name)
			fmt.Fprintf(out, "Dataset: %s (%d classes, %d images)\n", datasetDir, len(classes), len(samples))
			fmt.Fprintf(out, "Split: train=%.2f test=%.2f seed=%d\n", trainRatio, testRatio, seed)
			return nil
		},
	}

	cmd.Flags().Float64Var(&trainRatio, "train-ratio", 0, "Fraction of samples for the training split")
	cmd.Flags().Float64Var(&testRatio, "test-ratio", 0, "Fraction of samples for the test split")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Shuffle seed (0 preserves scan order)")
	return cmd
}
