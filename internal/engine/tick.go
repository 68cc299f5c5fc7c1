package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/talgya/cookie-world/internal/economy"
)

// ErrSchedulerStarted is returned when a scheduler is started twice.
var ErrSchedulerStarted = errors.New("scheduler already started")

// Producer runs one production cycle.
type Producer interface {
	Produce(ctx context.Context) (TickReport, error)
}

// Scheduler drives production forward on a fixed cadence. A cycle is only
// scheduled after the previous one returns, so cycles never overlap.
type Scheduler struct {
	Interval     time.Duration // Tick interval (default 1 second)
	SummaryEvery uint64        // Ticks between Info summaries; 0 disables

	producer Producer
	started  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	stats    Stats
	produced economy.Yield
}

// Stats counts what the scheduler has done so far.
type Stats struct {
	Ticks    uint64
	Failures uint64
	Lucky    uint64
}

// NewScheduler creates a scheduler for p with default settings.
func NewScheduler(p Producer) *Scheduler {
	return &Scheduler{
		Interval:     time.Second,
		SummaryEvery: 60,
		producer:     p,
		stop:         make(chan struct{}),
		produced:     make(economy.Yield),
	}
}

// Start runs the scheduler in the background until ctx is cancelled or Stop
// is called. It may be called once.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrSchedulerStarted
	}
	go s.loop(ctx)
	return nil
}

// Run is Start for callers that manage their own goroutine. It blocks until
// ctx is cancelled or Stop is called.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrSchedulerStarted
	}
	s.loop(ctx)
	return nil
}

// Stop halts the loop after the current cycle.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Stats returns a snapshot of the counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Scheduler) loop(ctx context.Context) {
	slog.Info("production scheduler started", "interval", s.Interval)

	timer := time.NewTimer(s.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("production scheduler stopped", "ticks", s.Stats().Ticks, "reason", ctx.Err())
			return
		case <-s.stop:
			slog.Info("production scheduler stopped", "ticks", s.Stats().Ticks)
			return
		case <-timer.C:
		}

		start := time.Now()

		s.step(ctx)

		// Wait for the remainder of the interval.
		wait := s.Interval - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}

// step runs one cycle and updates the counters.
func (s *Scheduler) step(ctx context.Context) {
	report, err := s.producer.Produce(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.stats.Failures++
		slog.Error("production cycle failed", "error", err)
		return
	}
	s.stats.Ticks++
	if report.Lucky {
		s.stats.Lucky++
	}
	if err := s.produced.Add(report.Produced); err != nil {
		// Running totals are for reporting only.
		s.produced = report.Produced.Clone()
	}

	if s.SummaryEvery > 0 && s.stats.Ticks%s.SummaryEvery == 0 {
		slog.Info("production summary",
			"ticks", s.stats.Ticks,
			"lucky_ticks", s.stats.Lucky,
			"failures", s.stats.Failures,
			"cookies_produced", economy.Comma(s.produced[economy.CurrencyCookie]),
			"dark_chocolate_produced", economy.Comma(s.produced[economy.CurrencyDarkChocolate]),
		)
	}
}
