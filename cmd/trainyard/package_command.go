package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"trainyard/internal/bundle"
	"trainyard/internal/services/objstore"
)

func newPackageCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "package <id>",
		Short: "Repackage a run's trained model bundle for edge redeployment",
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
			if run.ModelArtifactURI == "" {
				return fmt.Errorf("run %d has no trained model artifact", id)
			}

			bucket, key, err := objstore.ParseURI(run.ModelArtifactURI)
			if err != nil {
				return err
			}
			storageCfg := cfg.Storage
			storageCfg.Bucket = bucket
			client, err := objstore.NewClient(storageCfg)
			if err != nil {
				return err
			}

			downloadPath := filepath.Join(cfg.Paths.WorkDir, run.Name, "model.tar.gz")
			if err := client.Download(cmd.Context(), key, downloadPath); err != nil {
				return err
			}

			if outPath == "" {
				outPath = filepath.Join(cfg.Paths.ModelDir, run.Name, "model.tar.gz")
			}
			if err := bundle.Repackage(downloadPath, outPath); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Downloaded %s\n", run.ModelArtifactURI)
			fmt.Fprintf(out, "Wrote edge bundle to %s (%s, %s)\n", outPath, bundle.ParamsName, bundle.SymbolName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination for the repackaged bundle")
	return cmd
}
