// Package engine owns the game state and the two things that mutate it: player
// transactions and the background production cycle.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/cookie-world/internal/catalog"
	"github.com/talgya/cookie-world/internal/economy"
	"github.com/talgya/cookie-world/internal/effects"
	"github.com/talgya/cookie-world/internal/entropy"
)

// Journal receives every committed receipt and production tick. Calls happen
// after the game lock is released; a failing journal never undoes a commit.
type Journal interface {
	RecordTransaction(ctx context.Context, r Receipt) error
	RecordTick(ctx context.Context, t TickReport) error
}

// Game is the single source of truth for the ledger, holdings, and active
// effects. All methods are safe for concurrent use.
type Game struct {
	mu       sync.Mutex
	ledger   *economy.Ledger
	holdings *economy.Holdings
	registry *effects.Registry
	tick     uint64

	catalog *catalog.Catalog
	rng     entropy.Source
	journal Journal
	now     func() time.Time
}

// Option configures a Game.
type Option func(*Game)

// WithSource sets the random source used for luck rolls and lucky draws.
func WithSource(src entropy.Source) Option {
	return func(g *Game) { g.rng = src }
}

// WithJournal attaches a journal.
func WithJournal(j Journal) Option {
	return func(g *Game) { g.journal = j }
}

// WithClock overrides the receipt timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// NewGame creates a game with an empty ledger, no factories, and no effects.
func NewGame(c *catalog.Catalog, opts ...Option) *Game {
	g := &Game{
		ledger:   economy.NewLedger(),
		holdings: economy.NewHoldings(),
		registry: effects.NewRegistry(),
		catalog:  c,
		rng:      entropy.Crypto(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ── Queries ─────────────────────────────────────────────────────────────

// Ledger returns a snapshot of every balance.
func (g *Game) Ledger() economy.Yield {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger.Snapshot()
}

// Holdings returns a snapshot of factory counts, including zero counts.
func (g *Game) Holdings() map[economy.FactoryKind]uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.holdings.Snapshot()
}

// Effects returns the active effects in composition order.
func (g *Game) Effects() []effects.Kind {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registry.Active()
}

// Ticks returns how many production cycles have committed.
func (g *Game) Ticks() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tick
}

// FactoryPrice quotes buying qty units of kind at the current holdings.
func (g *Game) FactoryPrice(kind economy.FactoryKind, qty int) (economy.Cost, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.quoteBuy(kind, qty)
}

// FactoryRefund quotes selling qty units of kind at the current holdings.
func (g *Game) FactoryRefund(kind economy.FactoryKind, qty int) (economy.Cost, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.quoteSell(kind, qty)
}

// EffectPrice returns the price of an effect.
func (g *Game) EffectPrice(kind effects.Kind) (economy.Cost, error) {
	p, ok := g.catalog.Effects[kind]
	if !ok {
		return economy.Cost{}, fmt.Errorf("%w: effect %s", economy.ErrUnknownItem, kind)
	}
	return p, nil
}

// LuckyDrawPrice returns the price of one lucky draw.
func (g *Game) LuckyDrawPrice() economy.Cost {
	return g.catalog.LuckyDraw.Price
}

// Catalog returns the game constants in use.
func (g *Game) Catalog() *catalog.Catalog {
	return g.catalog
}

func (g *Game) factory(kind economy.FactoryKind) (catalog.Factory, error) {
	f, ok := g.catalog.Factories[kind]
	if !ok {
		return catalog.Factory{}, fmt.Errorf("%w: factory %s", economy.ErrUnknownItem, kind)
	}
	return f, nil
}

// quoteBuy expects g.mu held.
func (g *Game) quoteBuy(kind economy.FactoryKind, qty int) (economy.Cost, error) {
	f, err := g.factory(kind)
	if err != nil {
		return economy.Cost{}, err
	}
	amount, err := economy.Price(f.Price.Amount, g.holdings.Count(kind), qty)
	if err != nil {
		return economy.Cost{}, fmt.Errorf("price %s: %w", kind, err)
	}
	return economy.Cost{Currency: f.Price.Currency, Amount: amount}, nil
}

// quoteSell expects g.mu held.
func (g *Game) quoteSell(kind economy.FactoryKind, qty int) (economy.Cost, error) {
	f, err := g.factory(kind)
	if err != nil {
		return economy.Cost{}, err
	}
	amount, err := economy.Refund(f.Price.Amount, g.holdings.Count(kind), qty)
	if err != nil {
		return economy.Cost{}, fmt.Errorf("refund %s: %w", kind, err)
	}
	return economy.Cost{Currency: f.Price.Currency, Amount: amount}, nil
}

// ── Mutations ───────────────────────────────────────────────────────────

// Click credits amount of currency c by hand.
func (g *Game) Click(ctx context.Context, c economy.Currency, amount uint64) (Receipt, error) {
	if !c.Valid() {
		return Receipt{}, fmt.Errorf("%w: currency %d", economy.ErrUnknownItem, uint8(c))
	}
	if amount < 1 {
		return Receipt{}, fmt.Errorf("%w: click amount must be positive", economy.ErrInvalidQuantity)
	}

	g.mu.Lock()
	if err := g.ledger.Credit(c, amount); err != nil {
		g.mu.Unlock()
		return Receipt{}, fmt.Errorf("click: %w", err)
	}
	r := g.receipt(ActionClick, c.String(), amount, economy.Cost{Currency: c, Amount: amount})
	g.mu.Unlock()

	g.record(ctx, r)
	return r, nil
}

// BuyFactory buys qty units of kind, charging the exponential price.
func (g *Game) BuyFactory(ctx context.Context, kind economy.FactoryKind, qty int) (Receipt, error) {
	g.mu.Lock()
	cost, err := g.quoteBuy(kind, qty)
	if err == nil {
		err = g.ledger.Debit(cost.Currency, cost.Amount)
		if err == nil {
			if err = g.holdings.Increase(kind, uint64(qty)); err != nil {
				// Credit cannot overflow: the amount was just debited.
				_ = g.ledger.Credit(cost.Currency, cost.Amount)
			}
		}
	}
	if err != nil {
		g.mu.Unlock()
		return Receipt{}, fmt.Errorf("buy %d %s: %w", qty, kind, err)
	}
	r := g.receipt(ActionBuyFactory, kind.String(), uint64(qty), cost)
	g.mu.Unlock()

	g.record(ctx, r)
	return r, nil
}

// SellFactory sells qty units of kind, refunding the reverse exponential price.
func (g *Game) SellFactory(ctx context.Context, kind economy.FactoryKind, qty int) (Receipt, error) {
	g.mu.Lock()
	refund, err := g.quoteSell(kind, qty)
	if err == nil {
		err = g.holdings.Decrease(kind, uint64(qty))
		if err == nil {
			if err = g.ledger.Credit(refund.Currency, refund.Amount); err != nil {
				_ = g.holdings.Increase(kind, uint64(qty))
			}
		}
	}
	if err != nil {
		g.mu.Unlock()
		return Receipt{}, fmt.Errorf("sell %d %s: %w", qty, kind, err)
	}
	r := g.receipt(ActionSellFactory, kind.String(), uint64(qty), refund)
	g.mu.Unlock()

	g.record(ctx, r)
	return r, nil
}

// BuyEffect activates kind. An effect can be bought once.
func (g *Game) BuyEffect(ctx context.Context, kind effects.Kind) (Receipt, error) {
	cost, err := g.EffectPrice(kind)
	if err != nil {
		return Receipt{}, err
	}

	g.mu.Lock()
	if g.registry.Has(kind) {
		g.mu.Unlock()
		return Receipt{}, fmt.Errorf("%w: %s", economy.ErrEffectAlreadyActive, kind)
	}
	if err := g.ledger.Debit(cost.Currency, cost.Amount); err != nil {
		g.mu.Unlock()
		return Receipt{}, fmt.Errorf("buy effect %s: %w", kind, err)
	}
	if err := g.registry.Register(kind); err != nil {
		_ = g.ledger.Credit(cost.Currency, cost.Amount)
		g.mu.Unlock()
		return Receipt{}, fmt.Errorf("buy effect %s: %w", kind, err)
	}
	r := g.receipt(ActionBuyEffect, kind.String(), 1, cost)
	g.mu.Unlock()

	g.record(ctx, r)
	return r, nil
}

// DrawLuck charges the lucky draw price and draws once from the prize table.
// Landing on an effect that is already active still charges the draw; the
// result reports Granted=false.
func (g *Game) DrawLuck(ctx context.Context) (Receipt, error) {
	ld := g.catalog.LuckyDraw

	g.mu.Lock()
	if bal := g.ledger.Balance(ld.Price.Currency); bal < ld.Price.Amount {
		g.mu.Unlock()
		return Receipt{}, fmt.Errorf("lucky draw: %w: need %d %s, have %d",
			economy.ErrInsufficientFunds, ld.Price.Amount, ld.Price.Currency, bal)
	}
	kind, won, err := ld.Table.Draw(g.rng)
	if err != nil {
		g.mu.Unlock()
		return Receipt{}, err
	}
	if err := g.ledger.Debit(ld.Price.Currency, ld.Price.Amount); err != nil {
		g.mu.Unlock()
		return Receipt{}, fmt.Errorf("lucky draw: %w", err)
	}
	result := &LuckResult{}
	if won {
		result.Effect = &kind
		result.Granted = g.registry.Register(kind) == nil
	}
	r := g.receipt(ActionLuckyDraw, "lucky_draw", 1, ld.Price)
	r.Luck = result
	g.mu.Unlock()

	g.record(ctx, r)
	return r, nil
}

// receipt expects g.mu held.
func (g *Game) receipt(a Action, item string, qty uint64, c economy.Cost) Receipt {
	return Receipt{
		ID:       uuid.New(),
		Action:   a,
		Item:     item,
		Quantity: qty,
		Currency: c.Currency,
		Amount:   c.Amount,
		At:       g.now(),
	}
}

func (g *Game) record(ctx context.Context, r Receipt) {
	slog.Debug("transaction committed",
		"id", r.ID, "action", r.Action, "item", r.Item,
		"quantity", r.Quantity, "amount", r.Amount, "currency", r.Currency)
	if g.journal == nil {
		return
	}
	if err := g.journal.RecordTransaction(ctx, r); err != nil {
		slog.Error("journal transaction failed", "id", r.ID, "error", err)
	}
}
