package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/talgya/cookie-world/internal/economy"
	"github.com/talgya/cookie-world/internal/effects"
)

// Action names the kind of transaction a receipt records.
type Action string

const (
	ActionClick       Action = "click"
	ActionBuyFactory  Action = "buy_factory"
	ActionSellFactory Action = "sell_factory"
	ActionBuyEffect   Action = "buy_effect"
	ActionLuckyDraw   Action = "lucky_draw"
)

// Credits reports whether the action adds Amount to the ledger rather than
// removing it.
func (a Action) Credits() bool {
	return a == ActionClick || a == ActionSellFactory
}

// Receipt is the success payload of a committed transaction.
type Receipt struct {
	ID       uuid.UUID        `json:"id"`
	Action   Action           `json:"action"`
	Item     string           `json:"item"`
	Quantity uint64           `json:"quantity"`
	Currency economy.Currency `json:"currency"`
	Amount   uint64           `json:"amount"`
	At       time.Time        `json:"at"`
	Luck     *LuckResult      `json:"luck,omitempty"` // lucky draws only
}

// LuckResult is the outcome of a lucky draw. Effect is nil on a blank.
// Granted is false when the drawn effect was already active.
type LuckResult struct {
	Effect  *effects.Kind `json:"effect,omitempty"`
	Granted bool          `json:"granted"`
}

// TickReport describes one committed production cycle.
type TickReport struct {
	Tick      uint64                                `json:"tick"`
	Lucky     bool                                  `json:"lucky"`
	Produced  economy.Yield                         `json:"produced"`
	ByFactory map[economy.FactoryKind]economy.Yield `json:"by_factory"`
	At        time.Time                             `json:"at"`
}
