// Package entropy provides the random sources behind every stochastic game
// event: the per-tick luck roll and the lucky draw.
// Sources are injectable so tests can script outcomes.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	mrand "math/rand/v2"
	"sync"
)

var (
	ErrInvalidProb    = errors.New("invalid probability; must be within 0..1")
	ErrInvalidWeights = errors.New("weights must contain at least one positive entry")
)

// Source yields uniform floats in [0, 1).
type Source interface {
	Float64() float64
}

type cryptoSource struct{}

// Crypto returns a Source backed by crypto/rand.
func Crypto() Source { return cryptoSource{} }

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to the runtime generator.
		return mrand.Float64()
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// Seeded is a reproducible PCG source. Safe for concurrent use.
type Seeded struct {
	mu sync.Mutex
	r  *mrand.Rand
}

// NewSeeded creates a reproducible source from seed.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{r: mrand.New(mrand.NewPCG(seed, 0))}
}

func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Chance draws once from src and reports whether an event of probability p
// happened. p <= 0 never hits and p >= 1 always hits without consuming a draw.
func Chance(src Source, p float64) (bool, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return false, fmt.Errorf("%w: %v", ErrInvalidProb, p)
	}
	if p == 0 {
		return false, nil
	}
	if p == 1 {
		return true, nil
	}
	if src == nil {
		src = Crypto()
	}
	return src.Float64() < p, nil
}

// Pick draws once from src and returns an index into weights, chosen with
// probability weight/sum. Zero weights are never picked.
func Pick(src Source, weights []uint) (int, error) {
	var total uint64
	for _, w := range weights {
		total += uint64(w)
	}
	if total == 0 {
		return 0, ErrInvalidWeights
	}
	if src == nil {
		src = Crypto()
	}

	target := src.Float64() * float64(total)
	var acc float64
	last := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		acc += float64(w)
		if target < acc {
			return i, nil
		}
		last = i
	}
	// Float rounding at the top of the range lands on the last positive weight.
	return last, nil
}
