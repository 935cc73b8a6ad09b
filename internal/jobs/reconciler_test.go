package jobs

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/lifecycle"
	"github.com/SravanthiSinha/SmartClip/models"
)

type fakeSource struct {
	mu           sync.Mutex
	pending      []models.Video
	transcribing []models.Video
	listErr      error
	refreshed    map[uuid.UUID]int
	analyzed     map[uuid.UUID]int
	failRefresh  uuid.UUID
}

func newFakeSource(pending, transcribing int) *fakeSource {
	f := &fakeSource{refreshed: map[uuid.UUID]int{}, analyzed: map[uuid.UUID]int{}}
	for i := 0; i < pending; i++ {
		f.pending = append(f.pending, models.Video{ID: uuid.New(), Status: models.VideoProcessing})
	}
	for i := 0; i < transcribing; i++ {
		f.transcribing = append(f.transcribing, models.Video{ID: uuid.New(), Status: models.VideoTranscribing})
	}
	return f
}

func (f *fakeSource) ListPending(context.Context) ([]models.Video, error) {
	return f.pending, f.listErr
}

func (f *fakeSource) ListTranscribing(context.Context) ([]models.Video, error) {
	return f.transcribing, f.listErr
}

func (f *fakeSource) Refresh(_ context.Context, id uuid.UUID) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed[id]++
	if id == f.failRefresh {
		return nil, errors.New("platform down")
	}
	return &models.Video{ID: id, Status: models.VideoProcessing}, nil
}

func (f *fakeSource) Analyze(_ context.Context, id uuid.UUID) (lifecycle.AnalyzeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzed[id]++
	return lifecycle.AnalyzeResult{Outcome: lifecycle.OutcomeTranscribing}, nil
}

func quiet() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestReconcilerRefreshesEveryPendingVideo(t *testing.T) {
	src := newFakeSource(10, 3)
	src.failRefresh = src.pending[3].ID
	r := NewReconciler(src, ReconcilerConfig{Workers: 3}, quiet())

	sum, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if sum.Refreshed != 10 || sum.Analyzed != 0 || sum.Dropped != 0 {
		t.Fatalf("summary = %+v", sum)
	}
	for _, v := range src.pending {
		if src.refreshed[v.ID] != 1 {
			t.Errorf("video %s refreshed %d times", v.ID, src.refreshed[v.ID])
		}
	}
	if len(src.analyzed) != 0 {
		t.Errorf("analysis retried without the flag")
	}
}

func TestReconcilerRetryTranscribing(t *testing.T) {
	src := newFakeSource(2, 4)
	r := NewReconciler(src, ReconcilerConfig{Workers: 2, RetryTranscribing: true}, quiet())

	sum, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if sum.Refreshed != 2 || sum.Analyzed != 4 {
		t.Fatalf("summary = %+v", sum)
	}
	for _, v := range src.transcribing {
		if src.analyzed[v.ID] != 1 {
			t.Errorf("video %s analyzed %d times", v.ID, src.analyzed[v.ID])
		}
	}
}

func TestReconcilerListError(t *testing.T) {
	src := newFakeSource(1, 0)
	src.listErr = errors.New("db down")
	r := NewReconciler(src, ReconcilerConfig{}, quiet())
	if _, err := r.RunOnce(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(src.refreshed) != 0 {
		t.Fatal("refreshed after list failure")
	}
}

func TestRetryAnalyzeJobReportsFailure(t *testing.T) {
	id := uuid.New()
	job := NewRetryAnalyzeJob(id, analyzerFunc(func(context.Context, uuid.UUID) (lifecycle.AnalyzeResult, error) {
		return lifecycle.AnalyzeResult{Outcome: lifecycle.OutcomeFailed, Err: errors.New("llm down")}, nil
	}), 0, quiet())
	if job.ID() != "analyze:"+id.String() {
		t.Errorf("ID = %s", job.ID())
	}
	if err := job.Execute(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
}

type analyzerFunc func(context.Context, uuid.UUID) (lifecycle.AnalyzeResult, error)

func (f analyzerFunc) Analyze(ctx context.Context, id uuid.UUID) (lifecycle.AnalyzeResult, error) {
	return f(ctx, id)
}
