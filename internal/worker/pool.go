// Package worker provides the concurrency plumbing shared by batch analysis
// and outbound HTTP: a bounded job pool and a per-domain rate limiter.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of workers.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool with the given worker count (minimum 1).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Dropped silently after Shutdown.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for the workers to drain it, and returns every
// result.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for r := range p.results {
		results = append(results, r)
	}
	return results
}

// Shutdown cancels outstanding work immediately.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() { close(p.results) })
}
