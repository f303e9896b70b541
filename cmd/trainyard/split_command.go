package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"trainyard/internal/config"
	"trainyard/internal/dataset"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var outDir string
	var trainRatio float64
	var testRatio float64
	var seed uint64

	cmd := &cobra.Command{
		Use:   "split <dataset-dir>",
		Short: "Partition a dataset into list files without queueing a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			datasetDir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve dataset path: %w", err)
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
			if outDir == "" {
				outDir = datasetDir
			} else {
				outDir, err = config.ExpandPath(outDir)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
			}

			classes, samples, err := dataset.Scan(datasetDir)
			if err != nil {
				return fmt.Errorf("scan dataset: %w", err)
			}
			if len(samples) == 0 {
				return fmt.Errorf("dataset %q contains no class folders with images", datasetDir)
			}

			partition, err := dataset.Split(samples, trainRatio, testRatio, seed)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			for _, lf := range []struct {
				name    string
				samples []dataset.Sample
			}{
				{"train.lst", partition.Train},
				{"validation.lst", partition.Validation},
				{"test.lst", partition.Test},
			} {
				path := filepath.Join(outDir, lf.name)
				if err := dataset.WriteListFile(path, lf.samples); err != nil {
					return fmt.Errorf("write %s: %w", lf.name, err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %d images across %d classes\n", len(samples), len(classes))
			fmt.Fprintf(out, "Wrote %d train / %d validation / %d test entries to %s\n",
				len(partition.Train), len(partition.Validation), len(partition.Test), outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for the list files (defaults to the dataset directory)")
	cmd.Flags().Float64Var(&trainRatio, "train-ratio", 0, "Fraction of samples for the training split")
	cmd.Flags().Float64Var(&testRatio, "test-ratio", 0, "Fraction of samples for the test split")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Shuffle seed (0 preserves scan order)")
	return cmd
}
