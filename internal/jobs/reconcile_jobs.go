// Package jobs holds the units of work run by the reconcile worker pool.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/lifecycle"
	"github.com/SravanthiSinha/SmartClip/models"
)

// Refresher polls the platform for one video.
type Refresher interface {
	Refresh(ctx context.Context, id uuid.UUID) (*models.Video, error)
}

// Analyzer re-runs analysis for one video.
type Analyzer interface {
	Analyze(ctx context.Context, id uuid.UUID) (lifecycle.AnalyzeResult, error)
}

// RefreshVideoJob applies the platform's view of a pending video.
type RefreshVideoJob struct {
	VideoID   uuid.UUID
	Refresher Refresher
	Timeout   time.Duration
	Log       *logrus.Logger
}

func NewRefreshVideoJob(id uuid.UUID, r Refresher, timeout time.Duration, log *logrus.Logger) *RefreshVideoJob {
	return &RefreshVideoJob{VideoID: id, Refresher: r, Timeout: timeout, Log: log}
}

func (j *RefreshVideoJob) ID() string { return "refresh:" + j.VideoID.String() }

func (j *RefreshVideoJob) Execute(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, j.Timeout)
	defer cancel()
	v, err := j.Refresher.Refresh(ctx, j.VideoID)
	if err != nil {
		return fmt.Errorf("refresh video %s: %w", j.VideoID, err)
	}
	j.Log.WithFields(logrus.Fields{"video_id": v.ID, "status": v.Status}).Info("Reconciled video")
	return nil
}

// RetryAnalyzeJob re-runs analysis for a video whose transcript was pending.
type RetryAnalyzeJob struct {
	VideoID  uuid.UUID
	Analyzer Analyzer
	Timeout  time.Duration
	Log      *logrus.Logger
}

func NewRetryAnalyzeJob(id uuid.UUID, a Analyzer, timeout time.Duration, log *logrus.Logger) *RetryAnalyzeJob {
	return &RetryAnalyzeJob{VideoID: id, Analyzer: a, Timeout: timeout, Log: log}
}

func (j *RetryAnalyzeJob) ID() string { return "analyze:" + j.VideoID.String() }

func (j *RetryAnalyzeJob) Execute(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, j.Timeout)
	defer cancel()
	res, err := j.Analyzer.Analyze(ctx, j.VideoID)
	if err != nil {
		return fmt.Errorf("analyze video %s: %w", j.VideoID, err)
	}
	entry := j.Log.WithFields(logrus.Fields{"video_id": j.VideoID, "outcome": res.Outcome})
	if res.Outcome == lifecycle.OutcomeFailed {
		return fmt.Errorf("analyze video %s: %w", j.VideoID, res.Err)
	}
	entry.WithField("moments", len(res.Moments)).Info("Retried analysis")
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
