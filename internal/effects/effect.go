// Package effects models the one-time modifiers a player can own and the
// deterministic fold that applies them to factory production.
package effects

import (
	"fmt"
	"strings"

	"github.com/talgya/cookie-world/internal/economy"
)

// Kind identifies an effect. The numeric order is the composition order.
type Kind uint8

const (
	Inanis   Kind = iota // Doubles the cookie output of takodachis
	Darkness             // Doubles dark chocolate output of every factory
	Luck                 // Occasional flat bonus on every yield entry
)

// Kinds lists every effect in composition order.
var Kinds = []Kind{Inanis, Darkness, Luck}

var kindNames = map[Kind]string{
	Inanis:   "inanis",
	Darkness: "darkness",
	Luck:     "luck",
}

// Luck modifier tuning: one hit in 51 ticks, +5 per entry per unit.
const (
	LuckChance = 1.0 / 51
	LuckBonus  = 5
)

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("effect(%d)", uint8(k))
}

// Valid reports whether k is a known effect.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Parse resolves an effect by name, case-insensitively.
func Parse(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: effect %q", economy.ErrUnknownItem, name)
}

// Roll holds the random outcomes drawn once per production tick and shared
// by every factory kind in that tick.
type Roll struct {
	Lucky bool
}

// Modifier maps a factory's per-unit yield to the modified yield. It must not
// mutate its input and must leave entries it does not target unchanged.
type Modifier func(f economy.FactoryKind, y economy.Yield, roll Roll) economy.Yield

// Modifier returns the transform for k. Unknown kinds get the identity.
func (k Kind) Modifier() Modifier {
	switch k {
	case Inanis:
		return inanis
	case Darkness:
		return darkness
	case Luck:
		return luck
	}
	return identity
}

func identity(_ economy.FactoryKind, y economy.Yield, _ Roll) economy.Yield {
	return y
}

func inanis(f economy.FactoryKind, y economy.Yield, _ Roll) economy.Yield {
	if f != economy.FactoryTakodachi {
		return y
	}
	v, ok := y[economy.CurrencyCookie]
	if !ok {
		return y
	}
	out := y.Clone()
	out[economy.CurrencyCookie] = v * 2
	return out
}

func darkness(_ economy.FactoryKind, y economy.Yield, _ Roll) economy.Yield {
	v, ok := y[economy.CurrencyDarkChocolate]
	if !ok {
		return y
	}
	out := y.Clone()
	out[economy.CurrencyDarkChocolate] = v * 2
	return out
}

func luck(_ economy.FactoryKind, y economy.Yield, roll Roll) economy.Yield {
	if !roll.Lucky {
		return y
	}
	out := make(economy.Yield, len(y))
	for c, v := range y {
		out[c] = v + LuckBonus
	}
	return out
}
