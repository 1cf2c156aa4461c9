package queue

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medqueue/clinic-auth/internal/pkg/metrics"
)

const defaultBuffer = 64

// ErrPoolClosed is returned by Do once Stop has been called.
var ErrPoolClosed = errors.New("worker pool closed")

type job struct {
	fn   func()
	done chan struct{}
}

// Pool runs CPU-bound jobs on a fixed set of workers so that a burst of
// submissions cannot occupy more than numWorkers cores.
type Pool struct {
	jobs    chan job
	workers int
	log     zerolog.Logger

	mu      sync.RWMutex
	closed  bool
	stop    chan struct{}
	running sync.WaitGroup
}

// NewPool creates a Pool with numWorkers workers and a queue of buffer
// pending jobs. A non-positive numWorkers falls back to runtime.NumCPU() and
// a negative buffer to defaultBuffer; a zero buffer hands each job directly
// to an idle worker.
func NewPool(numWorkers, buffer int, log zerolog.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if buffer < 0 {
		buffer = defaultBuffer
	}
	return &Pool{
		jobs:    make(chan job, buffer),
		workers: numWorkers,
		log:     log,
		stop:    make(chan struct{}),
	}
}

// Start launches the worker goroutines. Workers exit on ctx cancellation or Stop.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.running.Add(1)
		go p.runWorker(ctx, i)
	}
	p.log.Debug().Int("workers", p.workers).Int("buffer", cap(p.jobs)).Msg("worker pool started")
}

// Do schedules fn and blocks until it has run. If ctx ends first, Do returns
// ctx.Err(); a job already queued still runs to completion.
//
// The read lock is held across the send so Stop cannot close the pool
// between the closed check and the enqueue.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	j := job{fn: fn, done: make(chan struct{})}
	metrics.HashQueueDepth.Inc()
	select {
	case p.jobs <- j:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		metrics.HashQueueDepth.Dec()
		return ctx.Err()
	}

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new jobs and waits for workers to drain.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.stop)
	p.mu.Unlock()

	p.running.Wait()
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	defer p.running.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			p.drain(id)
			return
		case j := <-p.jobs:
			p.run(id, j)
		}
	}
}

// drain completes jobs that were queued before Stop.
func (p *Pool) drain(id int) {
	for {
		select {
		case j := <-p.jobs:
			p.run(id, j)
		default:
			return
		}
	}
}

func (p *Pool) run(id int, j job) {
	metrics.HashQueueDepth.Dec()
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Int("worker_id", id).Msg("worker job panicked")
		}
	}()
	j.fn()
}
