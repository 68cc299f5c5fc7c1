package economy

import (
	"fmt"
	"math/bits"
)

// Ledger holds the player's balance per currency.
// It is not safe for concurrent use; engine.Game guards it with its own mutex.
type Ledger struct {
	balances map[Currency]uint64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[Currency]uint64)}
}

// Balance returns the current balance of c.
func (l *Ledger) Balance(c Currency) uint64 {
	return l.balances[c]
}

// Credit adds amount to c. The only failure is ErrOverflow.
func (l *Ledger) Credit(c Currency, amount uint64) error {
	sum, carry := bits.Add64(l.balances[c], amount, 0)
	if carry != 0 {
		return fmt.Errorf("%w: crediting %d %s", ErrOverflow, amount, c)
	}
	l.balances[c] = sum
	return nil
}

// Debit removes exactly amount from c, or fails with ErrInsufficientFunds
// and leaves the balance untouched. Debits never clamp to zero.
func (l *Ledger) Debit(c Currency, amount uint64) error {
	have := l.balances[c]
	if amount > have {
		return fmt.Errorf("%w: need %d %s, have %d", ErrInsufficientFunds, amount, c, have)
	}
	l.balances[c] = have - amount
	return nil
}

// CreditAll credits every entry of y, or nothing if any entry would overflow.
func (l *Ledger) CreditAll(y Yield) error {
	for c, v := range y {
		if _, carry := bits.Add64(l.balances[c], v, 0); carry != 0 {
			return fmt.Errorf("%w: crediting %d %s", ErrOverflow, v, c)
		}
	}
	for c, v := range y {
		l.balances[c] += v
	}
	return nil
}

// Snapshot returns a copy of every known currency's balance, zeros included.
func (l *Ledger) Snapshot() Yield {
	out := make(Yield, len(Currencies))
	for _, c := range Currencies {
		out[c] = l.balances[c]
	}
	return out
}

// Holdings counts owned factories per kind.
// Like Ledger, it relies on the caller for synchronization.
type Holdings struct {
	counts map[FactoryKind]uint64
}

// NewHoldings creates empty holdings.
func NewHoldings() *Holdings {
	return &Holdings{counts: make(map[FactoryKind]uint64)}
}

// Count returns how many of f are owned.
func (h *Holdings) Count(f FactoryKind) uint64 {
	return h.counts[f]
}

// Increase adds n units of f.
func (h *Holdings) Increase(f FactoryKind, n uint64) error {
	sum, carry := bits.Add64(h.counts[f], n, 0)
	if carry != 0 {
		return fmt.Errorf("%w: %d more %s", ErrOverflow, n, f)
	}
	h.counts[f] = sum
	return nil
}

// Decrease removes n units of f, failing with ErrInsufficientHoldings when
// fewer are owned.
func (h *Holdings) Decrease(f FactoryKind, n uint64) error {
	have := h.counts[f]
	if n > have {
		return fmt.Errorf("%w: want to remove %d %s, own %d", ErrInsufficientHoldings, n, f, have)
	}
	h.counts[f] = have - n
	return nil
}

// Snapshot returns a copy of every factory kind's count, zeros included.
func (h *Holdings) Snapshot() map[FactoryKind]uint64 {
	out := make(map[FactoryKind]uint64, len(Factories))
	for _, f := range Factories {
		out[f] = h.counts[f]
	}
	return out
}
