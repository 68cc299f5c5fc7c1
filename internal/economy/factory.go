package economy

import (
	"fmt"
	"strings"
)

// FactoryKind enumerates the purchasable production units.
type FactoryKind uint8

const (
	FactoryTakodachi FactoryKind = iota // Tier 1
	FactoryRobot                        // Tier 2
	FactoryFarm                         // Tier 3
	FactoryMine                         // Tier 4, the only dark chocolate source
)

// Factories lists every factory kind in tier order.
var Factories = []FactoryKind{FactoryTakodachi, FactoryRobot, FactoryFarm, FactoryMine}

var factoryNames = map[FactoryKind]string{
	FactoryTakodachi: "takodachi",
	FactoryRobot:     "robot",
	FactoryFarm:      "farm",
	FactoryMine:      "mine",
}

func (f FactoryKind) String() string {
	if name, ok := factoryNames[f]; ok {
		return name
	}
	return fmt.Sprintf("factory(%d)", uint8(f))
}

// Valid reports whether f is a known factory kind.
func (f FactoryKind) Valid() bool {
	_, ok := factoryNames[f]
	return ok
}

// ParseFactory resolves a factory by name, case-insensitively.
func ParseFactory(name string) (FactoryKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range factoryNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: factory %q", ErrUnknownItem, name)
}

// Cost is an amount of a single currency.
type Cost struct {
	Currency Currency
	Amount   uint64
}

func (p Cost) String() string {
	return Comma(p.Amount) + " " + p.Currency.String()
}
