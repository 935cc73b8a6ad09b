package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrQueueFull is returned by SubmitJob when the job queue has no room.
var ErrQueueFull = errors.New("job queue full")

// ErrStopped is returned by SubmitJob after Stop.
var ErrStopped = errors.New("dispatcher stopped")

// Job represents a unit of work to be executed.
type Job interface {
	Execute(ctx context.Context) error
	ID() string
}

// Worker pulls jobs from its own channel after registering it with the pool.
type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	quit       <-chan struct{}
	wg         *sync.WaitGroup
	pending    *sync.WaitGroup
	log        *logrus.Logger
	ctx        context.Context
}

func NewWorker(ctx context.Context, id int, workerPool chan chan Job, quit <-chan struct{}, wg, pending *sync.WaitGroup, log *logrus.Logger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		quit:       quit,
		wg:         wg,
		pending:    pending,
		log:        log,
		ctx:        ctx,
	}
}

// Start makes the Worker listen for jobs on its JobChannel.
func (w Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			// Register the current worker's JobChannel to the worker pool.
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-w.quit:
				w.log.WithField("worker", w.ID).Debug("Worker stopping")
				return
			}

			select {
			case job := <-w.JobChannel:
				w.run(job)
			case <-w.quit:
				w.log.WithField("worker", w.ID).Debug("Worker stopping")
				return
			}
		}
	}()
}

func (w Worker) run(job Job) {
	defer w.pending.Done()
	entry := w.log.WithFields(logrus.Fields{"worker": w.ID, "job_id": job.ID()})
	entry.Debug("Started job")
	if err := job.Execute(w.ctx); err != nil {
		entry.WithError(err).Error("Job failed")
		return
	}
	entry.Debug("Finished job")
}

// Dispatcher manages a pool of workers and dispatches jobs to them.
type Dispatcher struct {
	MaxWorkers int
	WorkerPool chan chan Job
	JobQueue   chan Job
	Workers    []Worker

	wg       sync.WaitGroup
	pending  sync.WaitGroup
	quit     chan struct{}
	stopOnce sync.Once
	mu       sync.RWMutex
	stopped  bool
	log      *logrus.Logger
}

func NewDispatcher(maxWorkers, jobQueueSize int, log *logrus.Logger) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{
		MaxWorkers: maxWorkers,
		WorkerPool: make(chan chan Job, maxWorkers),
		JobQueue:   make(chan Job, jobQueueSize),
		Workers:    make([]Worker, 0, maxWorkers),
		quit:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the dispatcher and its workers. Jobs receive ctx.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.WithField("workers", d.MaxWorkers).Info("Dispatcher starting")
	for i := 1; i <= d.MaxWorkers; i++ {
		worker := NewWorker(ctx, i, d.WorkerPool, d.quit, &d.wg, &d.pending, d.log)
		d.Workers = append(d.Workers, worker)
		worker.Start()
	}
	d.wg.Add(1)
	go d.dispatch()
}

// dispatch hands queued jobs to the next idle worker.
func (d *Dispatcher) dispatch() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.JobQueue:
			select {
			case jobChannel := <-d.WorkerPool:
				select {
				case jobChannel <- job:
				case <-d.quit:
					d.pending.Done()
					return
				}
			case <-d.quit:
				d.pending.Done()
				return
			}
		case <-d.quit:
			return
		}
	}
}

// SubmitJob queues a job without blocking.
func (d *Dispatcher) SubmitJob(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	d.pending.Add(1)
	select {
	case d.JobQueue <- job:
		d.log.WithField("job_id", job.ID()).Debug("Job queued")
		return nil
	default:
		d.pending.Done()
		d.log.WithField("job_id", job.ID()).Warn("Job queue full")
		return ErrQueueFull
	}
}

// Wait blocks until every submitted job has finished.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

// Stop shuts down the dispatcher after the workers finish their current jobs.
// Jobs still queued are dropped.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		d.mu.Unlock()
		close(d.quit)
		d.wg.Wait()
		for {
			select {
			case <-d.JobQueue:
				d.pending.Done()
			default:
				d.log.Info("Dispatcher stopped")
				return
			}
		}
	})
}
