package economy

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// GrowthFactor is the multiplier applied to a factory's base price for every
// unit already owned: the k-th unit (0-indexed) costs round(base × 1.15^k).
const GrowthFactor = "1.15"

var (
	growth    = decimal.RequireFromString(GrowthFactor)
	maxAmount = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

	// Used to reject exponents whose result cannot fit before doing exact
	// decimal work. The margin leaves borderline cases to the exact check.
	log10Growth    = math.Log10(1.15)
	log10MaxAmount = math.Log10(math.MaxUint64) + 0.01
)

// UnitPrice returns the rounded price of the unit at exponent n.
// Rounding is half-up on the exact decimal value.
func UnitPrice(base, n uint64) (uint64, error) {
	return sumUnitPrices(base, n, 1)
}

// Price returns the cost of buying quantity units when owned are already held:
// the sum of unit prices for exponents owned … owned+quantity-1.
func Price(base, owned uint64, quantity int) (uint64, error) {
	if quantity < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	return sumUnitPrices(base, owned, uint64(quantity))
}

// Refund returns what selling quantity units out of owned pays back: the
// prices of exponents owned-quantity … owned-1, so a sale exactly reverses
// the purchase of the same units.
func Refund(base, owned uint64, quantity int) (uint64, error) {
	if quantity < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	q := uint64(quantity)
	if q > owned {
		return 0, fmt.Errorf("%w: want to sell %d, own %d", ErrInsufficientHoldings, q, owned)
	}
	return sumUnitPrices(base, owned-q, q)
}

// sumUnitPrices rounds each unit individually before summing; rounding only
// the total would drift for large batches.
func sumUnitPrices(base, from, count uint64) (uint64, error) {
	if base == 0 {
		return 0, nil
	}
	if math.Log10(float64(base))+float64(from)*log10Growth > log10MaxAmount {
		return 0, fmt.Errorf("%w: unit %d of base price %d", ErrOverflow, from, base)
	}

	// The bound above keeps from well under math.MaxInt32.
	factor, err := growth.PowInt32(int32(from))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOverflow, err)
	}
	b := decimal.NewFromBigInt(new(big.Int).SetUint64(base), 0)

	total := decimal.Zero
	for i := uint64(0); i < count; i++ {
		total = total.Add(b.Mul(factor).Round(0))
		if total.GreaterThan(maxAmount) {
			return 0, fmt.Errorf("%w: %d units from #%d at base price %d", ErrOverflow, count, from, base)
		}
		factor = factor.Mul(growth)
	}
	return total.BigInt().Uint64(), nil
}
