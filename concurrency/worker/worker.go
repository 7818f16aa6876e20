// Package worker runs typed tasks on a fixed set of goroutines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrQueueFull = errors.New("task queue is full")
	ErrStopped   = errors.New("pool is stopped")
)

// Config represents pool configuration
type Config struct {
	MaxWorkers  int           // maximum number of workers
	QueueSize   int           // task queue size
	TaskTimeout time.Duration // timeout for single task, 0 for none
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxWorkers:  2,
		QueueSize:   1000,
		TaskTimeout: 5 * time.Second,
	}
}

// Validate validates configuration
func (cfg *Config) Validate() error {
	if cfg.MaxWorkers < 1 {
		return errors.New("max workers must be greater than 0")
	}
	if cfg.QueueSize < 1 {
		return errors.New("queue size must be greater than 0")
	}
	if cfg.TaskTimeout < 0 {
		return errors.New("task timeout must be greater than or equal to 0")
	}
	return nil
}

// Processor handles one task
type Processor[T any] func(ctx context.Context, task T) error

// Metrics tracks pool's operational metrics
type Metrics struct {
	ActiveWorkers  atomic.Int64
	PendingTasks   atomic.Int64
	CompletedTasks atomic.Int64
	FailedTasks    atomic.Int64
	ProcessingTime atomic.Int64 // nanoseconds
}

// Pool represents a worker pool. Stop drains queued tasks before returning.
type Pool[T any] struct {
	maxWorkers  int
	queueSize   int
	taskTimeout time.Duration
	process     Processor[T]

	mu      sync.RWMutex
	stopped bool
	tasks   chan T
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	metrics Metrics
}

// NewPool creates a pool running process. Call Start before Submit.
func NewPool[T any](cfg *Config, process Processor[T]) (*Pool[T], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if process == nil {
		return nil, errors.New("processor is nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool[T]{
		maxWorkers:  cfg.MaxWorkers,
		queueSize:   cfg.QueueSize,
		taskTimeout: cfg.TaskTimeout,
		process:     process,
		tasks:       make(chan T, cfg.QueueSize),
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Start starts the worker pool
func (p *Pool[T]) Start() {
	for range p.maxWorkers {
		p.wg.Add(1)
		go p.worker()
	}
}

// Submit queues task without blocking
func (p *Pool[T]) Submit(task T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}

	select {
	case p.tasks <- task:
		p.metrics.PendingTasks.Add(1)
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop rejects new tasks and waits for queued ones. When ctx expires first,
// running tasks are cancelled and ctx's error is returned.
func (p *Pool[T]) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.tasks)
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
		return ctx.Err()
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.processTask(task)
	}
}

func (p *Pool[T]) processTask(task T) {
	start := time.Now()
	p.metrics.ActiveWorkers.Add(1)
	p.metrics.PendingTasks.Add(-1)

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
		p.metrics.ActiveWorkers.Add(-1)
		p.metrics.ProcessingTime.Add(time.Since(start).Nanoseconds())
		if err != nil {
			p.metrics.FailedTasks.Add(1)
		} else {
			p.metrics.CompletedTasks.Add(1)
		}
	}()

	ctx := p.ctx
	if p.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.taskTimeout)
		defer cancel()
	}
	err = p.process(ctx, task)
}

// GetMetrics returns the current metrics
func (p *Pool[T]) GetMetrics() map[string]int64 {
	return map[string]int64{
		"active_workers":  p.metrics.ActiveWorkers.Load(),
		"pending_tasks":   p.metrics.PendingTasks.Load(),
		"completed_tasks": p.metrics.CompletedTasks.Load(),
		"failed_tasks":    p.metrics.FailedTasks.Load(),
		"processing_time": p.metrics.ProcessingTime.Load(),
	}
}

// IsBusy returns whether the pool is busy
func (p *Pool[T]) IsBusy() bool {
	return p.metrics.ActiveWorkers.Load() >= int64(p.maxWorkers) ||
		p.metrics.PendingTasks.Load() >= int64(p.queueSize)
}

// IsIdle returns whether no task is running or queued
func (p *Pool[T]) IsIdle() bool {
	return p.metrics.ActiveWorkers.Load() == 0 && p.metrics.PendingTasks.Load() == 0
}
