package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talgya/cookie-world/internal/economy"
)

// Produce runs one production cycle: every owned factory kind yields its
// composed per-unit output times its count, and the sum is credited in one
// step. On overflow nothing is credited and the tick does not advance.
func (g *Game) Produce(ctx context.Context) (TickReport, error) {
	g.mu.Lock()
	roll, err := g.registry.Roll(g.rng)
	if err != nil {
		g.mu.Unlock()
		return TickReport{}, fmt.Errorf("produce: %w", err)
	}

	total := make(economy.Yield)
	byFactory := make(map[economy.FactoryKind]economy.Yield)
	for _, kind := range economy.Factories {
		n := g.holdings.Count(kind)
		if n == 0 {
			continue
		}
		f, ok := g.catalog.Factories[kind]
		if !ok {
			continue
		}
		out, err := g.registry.Compose(kind, f.Yield, roll).Scale(n)
		if err == nil {
			err = total.Add(out)
		}
		if err != nil {
			g.mu.Unlock()
			return TickReport{}, fmt.Errorf("produce %s: %w", kind, err)
		}
		byFactory[kind] = out
	}
	if err := g.ledger.CreditAll(total); err != nil {
		g.mu.Unlock()
		return TickReport{}, fmt.Errorf("produce: %w", err)
	}
	g.tick++
	report := TickReport{
		Tick:      g.tick,
		Lucky:     roll.Lucky,
		Produced:  total,
		ByFactory: byFactory,
		At:        g.now(),
	}
	g.mu.Unlock()

	slog.Debug("production tick", "tick", report.Tick, "lucky", report.Lucky, "cookies", total[economy.CurrencyCookie])
	if g.journal != nil {
		if err := g.journal.RecordTick(ctx, report); err != nil {
			slog.Error("journal tick failed", "tick", report.Tick, "error", err)
		}
	}
	return report, nil
}
