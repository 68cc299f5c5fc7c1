package economy

import "errors"

// Transaction failures. Every one leaves game state unchanged; callers match
// them with errors.Is since they are usually wrapped with detail.
var (
	ErrInvalidQuantity      = errors.New("quantity must be a positive whole number")
	ErrUnknownItem          = errors.New("unknown item")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrEffectAlreadyActive  = errors.New("effect already active")
	ErrOverflow             = errors.New("amount exceeds representable range")
)
