package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/cookie-world/internal/economy"
)

type slowProducer struct {
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       atomic.Int32
	delay       time.Duration
	err         error
}

func (p *slowProducer) Produce(context.Context) (TickReport, error) {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		m := p.maxInFlight.Load()
		if n <= m || p.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	p.calls.Add(1)
	time.Sleep(p.delay)
	if p.err != nil {
		return TickReport{}, p.err
	}
	return TickReport{Produced: economy.Yield{economy.CurrencyCookie: 1}}, nil
}

func TestSchedulerCyclesNeverOverlap(t *testing.T) {
	p := &slowProducer{delay: 3 * time.Millisecond}
	s := NewScheduler(p)
	s.Interval = time.Millisecond
	s.SummaryEvery = 5

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))

	assert.Greater(t, p.calls.Load(), int32(2))
	assert.Equal(t, int32(1), p.maxInFlight.Load())
	assert.Equal(t, uint64(p.calls.Load()), s.Stats().Ticks)
}

func TestSchedulerStartsOnce(t *testing.T) {
	s := NewScheduler(&slowProducer{})
	s.Interval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.ErrorIs(t, s.Start(ctx), ErrSchedulerStarted)
	assert.ErrorIs(t, s.Run(ctx), ErrSchedulerStarted)
}

func TestSchedulerStop(t *testing.T) {
	s := NewScheduler(&slowProducer{})
	s.Interval = time.Millisecond

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	require.Eventually(t, func() bool { return s.Stats().Ticks >= 2 }, time.Second, time.Millisecond)
	s.Stop()
	s.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedulerCountsFailures(t *testing.T) {
	p := &slowProducer{err: errors.New("boom")}
	s := NewScheduler(p)
	s.Interval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))

	stats := s.Stats()
	assert.Zero(t, stats.Ticks)
	assert.Equal(t, uint64(p.calls.Load()), stats.Failures)
}

func TestSchedulerDrivesGame(t *testing.T) {
	g := newTestGame(t)
	fund(t, g, economy.CurrencyCookie, 5)
	_, err := g.BuyFactory(context.Background(), economy.FactoryTakodachi, 1)
	require.NoError(t, err)

	s := NewScheduler(g)
	s.Interval = time.Millisecond

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()
	require.Eventually(t, func() bool { return g.Ticks() >= 3 }, time.Second, time.Millisecond)
	s.Stop()
	require.NoError(t, <-done)

	assert.Equal(t, g.Ticks(), g.Ledger()[economy.CurrencyCookie])
	assert.Equal(t, g.Ticks(), s.Stats().Ticks)
}
