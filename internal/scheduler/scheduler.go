// Package scheduler runs the periodic listing expiry sweep.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = time.Minute

// Expirer marks overdue listings as expired.
type Expirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Invalidator drops cached counters after listings change state.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Scheduler wraps robfig/cron and owns the expiry job.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	expirer Expirer
	cache   Invalidator
	now     func() time.Time

	mu      sync.Mutex
	running bool
}

func New(spec string, expirer Expirer, cache Invalidator) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		spec:    spec,
		expirer: expirer,
		cache:   cache,
		now:     time.Now,
	}
}

// Start registers the sweep, starts the cron loop and runs one sweep right
// away so stale listings do not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.Sweep(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	slog.Info("Expiry scheduler started", "spec", s.spec)

	go s.Sweep(ctx)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Expiry scheduler stopped")
}

// Sweep runs one expiry pass. Overlapping invocations are skipped.
func (s *Scheduler) Sweep(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		slog.Debug("Expiry sweep already running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	n, err := s.expirer.ExpireOverdue(sweepCtx, s.now())
	if err != nil {
		slog.Error("Expiry sweep failed", "error", err)
		return
	}

	if n > 0 && s.cache != nil {
		s.cache.Invalidate(sweepCtx)
	}
	slog.Info("Expiry sweep finished", "expired", n)
}
