// Package schedule runs named background jobs on fixed intervals.
//
//	s := schedule.New()
//	s.Every("assets:prune", time.Hour, pruneJob)
//	s.Start(ctx) // returns immediately; jobs stop with ctx
package schedule

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shashiranjanraj/shopadmin/pkg/logger"
)

// Job receives the scheduler's context; it is cancelled on shutdown.
type Job func(ctx context.Context) error

type entry struct {
	name     string
	interval time.Duration
	job      Job
}

// Scheduler owns a set of interval jobs. A job never overlaps itself.
type Scheduler struct {
	mu      sync.Mutex
	entries []entry
	wg      sync.WaitGroup
}

func New() *Scheduler { return &Scheduler{} }

// Every registers job to run each interval. Non-positive intervals are ignored.
func (s *Scheduler) Every(name string, interval time.Duration, job Job) {
	if interval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{name: name, interval: interval, job: job})
}

// Jobs lists the registered jobs as "name [interval]".
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, fmt.Sprintf("%s [%s]", e.name, e.interval))
	}
	return out
}

// Start launches one goroutine per job. Wait blocks until they exit.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	entries := append([]entry(nil), s.entries...)
	s.mu.Unlock()

	for _, e := range entries {
		s.wg.Add(1)
		go s.loop(ctx, e)
	}
	if len(entries) > 0 {
		logger.Info("schedule: started", "jobs", len(entries))
	}
}

// Wait returns after every job loop has stopped.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) loop(ctx context.Context, e entry) {
	defer s.wg.Done()
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run(ctx, e)
		}
	}
}

func run(ctx context.Context, e entry) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("schedule: job panicked", "job", e.name, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if err := e.job(ctx); err != nil {
		logger.Error("schedule: job failed", "job", e.name, "error", err)
		return
	}
	logger.Debug("schedule: job done", "job", e.name, "duration", time.Since(start).String())
}
