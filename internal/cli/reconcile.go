package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/SravanthiSinha/SmartClip/internal/jobs"
)

func newReconcileCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Poll the hosting platform for videos still waiting on an upload or asset",
		Long: "Refreshes every video in waiting_for_upload or processing on a bounded worker pool. " +
			"With --schedule the pass repeats on a cron expression until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			workers, _ := cmd.Flags().GetInt("workers")
			schedule, _ := cmd.Flags().GetString("schedule")
			retry, _ := cmd.Flags().GetBool("retry-transcribing")
			return rt.reconcile(cmd.Context(), jobs.ReconcilerConfig{
				Workers:           workers,
				RetryTranscribing: retry,
			}, schedule)
		},
	}
	cmd.Flags().Int("workers", jobs.DefaultWorkers, "Number of concurrent platform polls")
	cmd.Flags().String("schedule", "", "Cron expression; run once when empty")
	cmd.Flags().Bool("retry-transcribing", false, "Also re-run analysis for videos waiting on a transcript")
	return cmd
}

func (rt *runtime) reconcile(parent context.Context, cfg jobs.ReconcilerConfig, schedule string) error {
	if parent == nil {
		parent = context.Background()
	}
	if err := rt.cfg.RequireCredentials(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	svc := rt.newServices(st, nil)
	r := jobs.NewReconciler(svc.videos, cfg, rt.log)

	if schedule == "" {
		_, err := r.RunOnce(ctx)
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if _, err := r.RunOnce(ctx); err != nil {
			rt.log.WithError(err).Error("Reconcile pass failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	c.Start()
	rt.log.Infof("Reconcile scheduled: %s", schedule)

	<-ctx.Done()
	// wait for a running pass to finish
	<-c.Stop().Done()
	rt.log.Info("Reconcile stopped")
	return nil
}
