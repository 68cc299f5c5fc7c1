// Package economy provides the currency ledger, factory holdings, and the
// exponential pricing model shared by every shop in the game.
package economy

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// Currency identifies a kind of cookie tracked in the ledger.
type Currency uint8

const (
	CurrencyCookie        Currency = iota // Base currency, produced by every factory
	CurrencyDarkChocolate                 // Premium currency, produced by mines only
)

// Currencies lists every currency in display order.
var Currencies = []Currency{CurrencyCookie, CurrencyDarkChocolate}

var currencyNames = map[Currency]string{
	CurrencyCookie:        "cookie",
	CurrencyDarkChocolate: "dark_chocolate",
}

func (c Currency) String() string {
	if name, ok := currencyNames[c]; ok {
		return name
	}
	return fmt.Sprintf("currency(%d)", uint8(c))
}

// Valid reports whether c is one of the known currencies.
func (c Currency) Valid() bool {
	_, ok := currencyNames[c]
	return ok
}

// ParseCurrency resolves a currency by name, case-insensitively.
func ParseCurrency(name string) (Currency, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range currencyNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: currency %q", ErrUnknownItem, name)
}

// Yield is an amount per currency. Used for production vectors and tick output.
type Yield map[Currency]uint64

// Clone returns an independent copy of y.
func (y Yield) Clone() Yield {
	out := make(Yield, len(y))
	for c, v := range y {
		out[c] = v
	}
	return out
}

// Scale multiplies every entry by n. Fails with ErrOverflow instead of wrapping.
func (y Yield) Scale(n uint64) (Yield, error) {
	out := make(Yield, len(y))
	for c, v := range y {
		hi, lo := bits.Mul64(v, n)
		if hi != 0 {
			return nil, fmt.Errorf("%w: %d %s × %d", ErrOverflow, v, c, n)
		}
		out[c] = lo
	}
	return out, nil
}

// Add accumulates other into y in place.
func (y Yield) Add(other Yield) error {
	for c, v := range other {
		sum, carry := bits.Add64(y[c], v, 0)
		if carry != 0 {
			return fmt.Errorf("%w: %s total", ErrOverflow, c)
		}
		y[c] = sum
	}
	return nil
}

// Total sums all entries, ignoring currency. Callers use it for logging only.
func (y Yield) Total() uint64 {
	var t uint64
	for _, v := range y {
		t += v
	}
	return t
}

// Currencies returns the keys of y in enum order.
func (y Yield) Currencies() []Currency {
	out := make([]Currency, 0, len(y))
	for c := range y {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
