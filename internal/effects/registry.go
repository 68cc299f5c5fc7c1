package effects

import (
	"fmt"
	"sort"

	"github.com/talgya/cookie-world/internal/economy"
	"github.com/talgya/cookie-world/internal/entropy"
)

// Registry is the set of active effects. Entries are never removed.
// It is not safe for concurrent use; engine.Game serializes access.
type Registry struct {
	active map[Kind]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[Kind]struct{})}
}

// Register activates k. Activating an effect twice fails with
// economy.ErrEffectAlreadyActive and leaves the registry unchanged.
func (r *Registry) Register(k Kind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: effect %d", economy.ErrUnknownItem, uint8(k))
	}
	if _, ok := r.active[k]; ok {
		return fmt.Errorf("%w: %s", economy.ErrEffectAlreadyActive, k)
	}
	r.active[k] = struct{}{}
	return nil
}

// Has reports whether k is active.
func (r *Registry) Has(k Kind) bool {
	_, ok := r.active[k]
	return ok
}

// Len returns the number of active effects.
func (r *Registry) Len() int {
	return len(r.active)
}

// Active returns the active effects in composition order.
func (r *Registry) Active() []Kind {
	out := make([]Kind, 0, len(r.active))
	for k := range r.active {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Roll draws this tick's random outcomes. The source is consulted only when
// an effect that needs it is active, once per call.
func (r *Registry) Roll(src entropy.Source) (Roll, error) {
	var roll Roll
	if r.Has(Luck) {
		lucky, err := entropy.Chance(src, LuckChance)
		if err != nil {
			return Roll{}, fmt.Errorf("luck roll: %w", err)
		}
		roll.Lucky = lucky
	}
	return roll, nil
}

// Compose folds every active modifier over base in composition order and
// returns the per-unit yield of f. base is not modified.
func (r *Registry) Compose(f economy.FactoryKind, base economy.Yield, roll Roll) economy.Yield {
	y := base.Clone()
	for _, k := range r.Active() {
		y = k.Modifier()(f, y, roll)
	}
	return y
}
