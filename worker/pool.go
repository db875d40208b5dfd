// Package worker runs per-file validations in parallel. Files are
// independent; no ordering is required between them.
package worker

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
)

// Runner validates one file and returns its report.
type Runner func(file string) *dsflint.Report

// JobResult is the outcome of one file validation.
type JobResult struct {
	File     string
	Report   *dsflint.Report
	Duration time.Duration
}

// Pool manages a fixed set of worker goroutines validating files.
// Finished results accumulate inside the pool, so Submit only blocks on a
// full job queue, never on result collection.
type Pool struct {
	workers int
	run     Runner

	jobs   chan string
	wg     sync.WaitGroup
	closed atomic.Bool

	mu      sync.Mutex
	results []*JobResult

	submitted atomic.Uint64
	completed atomic.Uint64
}

// NewPool creates a pool with the given number of workers.
// workers <= 0 defaults to runtime.NumCPU().
func NewPool(run Runner, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := &Pool{
		workers: workers,
		run:     run,
		jobs:    make(chan string, workers*2),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit queues a file for validation, blocking while the queue is full.
// Returns false after the pool is closed.
func (p *Pool) Submit(file string) bool {
	if p.closed.Load() {
		return false
	}
	p.jobs <- file
	p.submitted.Add(1)
	return true
}

// CloseAndWait closes the queue, waits for the workers to drain it and
// returns all collected results.
func (p *Pool) CloseAndWait() []*JobResult {
	if p.closed.Swap(true) {
		return nil
	}
	close(p.jobs)
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}

// Stats returns the submitted and completed job counts.
func (p *Pool) Stats() (submitted, completed uint64) {
	return p.submitted.Load(), p.completed.Load()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for file := range p.jobs {
		start := time.Now()
		report := p.run(file)
		p.completed.Add(1)

		p.mu.Lock()
		p.results = append(p.results, &JobResult{
			File:     file,
			Report:   report,
			Duration: time.Since(start),
		})
		p.mu.Unlock()
	}
}
