package queue

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/devmatch/account-service/internal/api/metrics"
)

const channelBuffer = 256

// ErrPoolStopped is returned when work is submitted after the pool's context ended.
var ErrPoolStopped = errors.New("worker pool stopped")

type job struct {
	fn   func()
	done chan struct{}
}

// Pool runs CPU-bound work (password hashing) on a fixed set of workers so a
// burst of signups cannot occupy every core at once.
type Pool struct {
	jobs    chan job
	workers int
	started atomic.Bool
	stopped chan struct{}
	log     zerolog.Logger
}

// NewPool creates a Pool with numWorkers workers.
// If numWorkers <= 0, runtime.NumCPU() is used.
func NewPool(numWorkers int, log zerolog.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{
		jobs:    make(chan job, channelBuffer),
		workers: numWorkers,
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		close(p.stopped)
	}()
	p.log.Debug().Int("workers", p.workers).Msg("hash pool started")
}

// Do runs fn on a worker and waits for it to finish. A nil or unstarted pool
// runs fn on the calling goroutine. If ctx ends first Do returns ctx.Err();
// fn may still run later and whatever it produces is discarded by the caller.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	if p == nil || !p.started.Load() {
		fn()
		return nil
	}

	j := job{fn: fn, done: make(chan struct{})}
	select {
	case p.jobs <- j:
		metrics.HashQueueDepth.Set(float64(len(p.jobs)))
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopped:
		return ErrPoolStopped
	}

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopped:
		return ErrPoolStopped
	}
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			metrics.HashQueueDepth.Set(float64(len(p.jobs)))
			p.run(id, j)
		}
	}
}

func (p *Pool) run(id int, j job) {
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Int("worker_id", id).Msg("hash job panicked")
		}
	}()
	j.fn()
}
