package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trainyard/internal/deploying"
	"trainyard/internal/evaluating"
	"trainyard/internal/logging"
	"trainyard/internal/partitioning"
	"trainyard/internal/runner"
	"trainyard/internal/training"
	"trainyard/internal/uploading"
	"trainyard/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process queued runs until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			uploader, err := uploading.NewUploader(cfg, store, logger)
			if err != nil {
				return fmt.Errorf("init uploader: %w", err)
			}
			trainer, err := training.NewTrainer(cfg, store, logger)
			if err != nil {
				return fmt.Errorf("init trainer: %w", err)
			}
			deployer, err := deploying.NewDeployer(cfg, store, logger)
			if err != nil {
				return fmt.Errorf("init deployer: %w", err)
			}

			mgr := workflow.NewManager(cfg, store, logger, workflow.StageSet{
				Partitioner: partitioning.NewPartitioner(cfg, store, logger),
				Uploader:    uploader,
				Trainer:     trainer,
				Deployer:    deployer,
				Evaluator:   evaluating.NewEvaluator(cfg, store, logger),
			})

			r, err := runner.New(cfg, store, logger, mgr)
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := r.Start(signalCtx); err != nil {
				return err
			}
			defer r.Stop()

			fmt.Fprintln(cmd.OutOrStdout(), "Trainyard runner started; press Ctrl+C to stop")
			<-signalCtx.Done()
			logger.Info("trainyard runner shutting down")
			return nil
		},
	}
}
