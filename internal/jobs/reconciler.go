package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/worker"
	"github.com/SravanthiSinha/SmartClip/models"
)

const (
	DefaultWorkers    = 4
	DefaultJobTimeout = 2 * time.Minute
)

// Source lists the videos to reconcile and acts on them.
type Source interface {
	Refresher
	Analyzer
	ListPending(ctx context.Context) ([]models.Video, error)
	ListTranscribing(ctx context.Context) ([]models.Video, error)
}

type ReconcilerConfig struct {
	Workers int
	// RetryTranscribing also re-runs analysis for videos waiting on a transcript.
	RetryTranscribing bool
	JobTimeout        time.Duration
}

// Reconciler runs one pass of platform polls over every pending video.
type Reconciler struct {
	src Source
	cfg ReconcilerConfig
	log *logrus.Logger
}

// Summary counts the jobs of one pass.
type Summary struct {
	Refreshed int
	Analyzed  int
	Dropped   int
}

func NewReconciler(src Source, cfg ReconcilerConfig, log *logrus.Logger) *Reconciler {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultJobTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Reconciler{src: src, cfg: cfg, log: log}
}

// RunOnce lists the videos, runs a job per video on a bounded pool and
// waits for all of them.
func (r *Reconciler) RunOnce(ctx context.Context) (Summary, error) {
	var sum Summary
	pending, err := r.src.ListPending(ctx)
	if err != nil {
		return sum, fmt.Errorf("list pending videos: %w", err)
	}
	var transcribing []models.Video
	if r.cfg.RetryTranscribing {
		if transcribing, err = r.src.ListTranscribing(ctx); err != nil {
			return sum, fmt.Errorf("list transcribing videos: %w", err)
		}
	}

	d := worker.NewDispatcher(r.cfg.Workers, len(pending)+len(transcribing), r.log)
	d.Run(ctx)
	defer d.Stop()

	for _, v := range pending {
		if err := d.SubmitJob(NewRefreshVideoJob(v.ID, r.src, r.cfg.JobTimeout, r.log)); err != nil {
			sum.Dropped++
			continue
		}
		sum.Refreshed++
	}
	for _, v := range transcribing {
		if err := d.SubmitJob(NewRetryAnalyzeJob(v.ID, r.src, r.cfg.JobTimeout, r.log)); err != nil {
			sum.Dropped++
			continue
		}
		sum.Analyzed++
	}
	d.Wait()

	r.log.WithFields(logrus.Fields{
		"refreshed": sum.Refreshed,
		"analyzed":  sum.Analyzed,
		"dropped":   sum.Dropped,
	}).Info("Reconcile pass complete")
	return sum, nil
}
