// Package worker runs fire-and-forget background tasks on a bounded pool.
package worker

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"
)

// ErrClosed is returned by Submit after Shutdown has started.
var ErrClosed = errors.New("worker pool closed")

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("worker queue full")

// Task is a unit of background work. It must honour ctx cancellation.
type Task func(ctx context.Context)

type job struct {
	name string
	task Task
}

// Pool executes submitted tasks detached from the submitting request.
type Pool struct {
	jobs    chan job
	timeout time.Duration
	logger  *log.Logger

	base   context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool starts workers goroutines reading from a queue of queueSize. Each task gets its own
// deadline of timeout (no deadline when timeout is zero).
func NewPool(workers, queueSize int, timeout time.Duration, logger *log.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	base, cancel := context.WithCancel(context.Background())
	p := &Pool{
		jobs:    make(chan job, queueSize),
		timeout: timeout,
		logger:  logger,
		base:    base,
		cancel:  cancel,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

// Submit queues task without blocking.
func (p *Pool) Submit(name string, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.jobs <- job{name: name, task: task}:
		return nil
	default:
		p.logger.Printf("worker: queue full, dropping task=%s", name)
		return ErrQueueFull
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish. When ctx expires first,
// running tasks are cancelled and ctx.Err() is returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.execute(j)
	}
}

func (p *Pool) execute(j job) {
	ctx := p.base
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(p.base, p.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("worker: task=%s panic=%v", j.name, r)
		}
	}()
	start := time.Now()
	j.task(ctx)
	p.logger.Printf("worker: task=%s finished in %s", j.name, time.Since(start).Truncate(time.Millisecond))
}
