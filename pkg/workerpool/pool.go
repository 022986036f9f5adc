// Package workerpool is a bounded goroutine pool with backpressure.
//
// Submit never blocks: when every worker is busy and the queue is full it
// returns ErrPoolFull and the caller decides what to do (the asset manager
// runs the task inline).
//
//	pool := workerpool.New(4)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(task); errors.Is(err, workerpool.ErrPoolFull) {
//	    task()
//	}
package workerpool

import (
	"errors"
	"sync"
)

var (
	ErrPoolFull   = errors.New("workerpool: pool is full")
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Pool runs submitted tasks on a fixed number of workers.
type Pool struct {
	tasks   chan func()
	workers sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	onPanic func(any)
}

// Option configures a Pool.
type Option func(*Pool)

// WithPanicHandler is called with the recovered value when a task panics.
func WithPanicHandler(fn func(any)) Option {
	return func(p *Pool) { p.onPanic = fn }
}

// New starts size workers (minimum 1) with a queue of 2×size.
func New(size int, opts ...Option) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{tasks: make(chan func(), size*2)}
	for _, opt := range opts {
		opt(p)
	}

	p.workers.Add(size)
	for i := 0; i < size; i++ {
		go p.work()
	}
	return p
}

// Submit queues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown stops accepting tasks, drains the queue, and waits for the
// workers to exit. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
		p.workers.Wait()
	})
}

func (p *Pool) work() {
	defer p.workers.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

// run keeps the worker alive when a task panics.
func (p *Pool) run(task func()) {
	defer func() {
		if rec := recover(); rec != nil && p.onPanic != nil {
			p.onPanic(rec)
		}
	}()
	task()
}
