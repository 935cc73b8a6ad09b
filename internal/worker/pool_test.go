package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type countJob struct {
	id    string
	count *int32
	err   error
	block chan struct{}
}

func (j countJob) ID() string { return j.id }

func (j countJob) Execute(ctx context.Context) error {
	if j.block != nil {
		select {
		case <-j.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	atomic.AddInt32(j.count, 1)
	return j.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDispatcherRunsAllJobs(t *testing.T) {
	d := NewDispatcher(4, 100, quietLogger())
	d.Run(context.Background())
	defer d.Stop()

	var n int32
	for i := 0; i < 50; i++ {
		var err error
		if i%5 == 0 {
			err = errors.New("boom")
		}
		if err := d.SubmitJob(countJob{id: fmt.Sprint(i), count: &n, err: err}); err != nil {
			t.Fatalf("SubmitJob(%d): %v", i, err)
		}
	}
	d.Wait()
	if got := atomic.LoadInt32(&n); got != 50 {
		t.Fatalf("executed %d jobs, want 50", got)
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(1, 1, quietLogger())
	block := make(chan struct{})
	var n int32

	// not running yet, so the queue holds exactly one job
	if err := d.SubmitJob(countJob{id: "a", count: &n, block: block}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := d.SubmitJob(countJob{id: "b", count: &n}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("second submit err = %v, want ErrQueueFull", err)
	}

	d.Run(context.Background())
	close(block)
	d.Wait()
	d.Stop()
	if got := atomic.LoadInt32(&n); got != 1 {
		t.Fatalf("executed %d jobs, want 1", got)
	}
}

func TestDispatcherStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(2, 10, quietLogger())
	d.Run(ctx)

	block := make(chan struct{})
	var n int32
	for i := 0; i < 5; i++ {
		d.SubmitJob(countJob{id: fmt.Sprint(i), count: &n, block: block})
	}

	done := make(chan struct{})
	go func() {
		cancel()
		d.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}

	if err := d.SubmitJob(countJob{id: "late", count: &n}); !errors.Is(err, ErrStopped) {
		t.Fatalf("submit after stop err = %v", err)
	}

	waited := make(chan struct{})
	go func() {
		d.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after Stop")
	}
}

func TestDispatcherStopIdempotent(t *testing.T) {
	d := NewDispatcher(2, 1, quietLogger())
	d.Run(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Stop()
		}()
	}
	wg.Wait()
}
