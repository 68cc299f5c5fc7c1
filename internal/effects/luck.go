package effects

import (
	"fmt"

	"github.com/talgya/cookie-world/internal/entropy"
)

// Prize is one outcome of the lucky draw. A nil Effect is a blank.
type Prize struct {
	Effect *Kind
	Weight uint
}

// DrawTable lists the possible outcomes of one lucky draw.
type DrawTable []Prize

// DefaultDrawTable gives a blank 100 times out of 102 and luck or darkness
// once each.
func DefaultDrawTable() DrawTable {
	luck, dark := Luck, Darkness
	return DrawTable{
		{Effect: nil, Weight: 100},
		{Effect: &luck, Weight: 1},
		{Effect: &dark, Weight: 1},
	}
}

// Draw consults src exactly once. won is false on a blank.
func (t DrawTable) Draw(src entropy.Source) (effect Kind, won bool, err error) {
	weights := make([]uint, len(t))
	for i, p := range t {
		weights[i] = p.Weight
	}
	i, err := entropy.Pick(src, weights)
	if err != nil {
		return 0, false, fmt.Errorf("lucky draw: %w", err)
	}
	if t[i].Effect == nil {
		return 0, false, nil
	}
	return *t[i].Effect, true, nil
}
