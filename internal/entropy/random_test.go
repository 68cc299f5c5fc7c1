package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

func TestChanceBounds(t *testing.T) {
	hit, err := Chance(fixed(0), 0)
	require.NoError(t, err)
	assert.False(t, hit, "p=0 should never hit")

	hit, err = Chance(fixed(0.999), 1)
	require.NoError(t, err)
	assert.True(t, hit, "p=1 should always hit")

	_, err = Chance(nil, -0.1)
	assert.ErrorIs(t, err, ErrInvalidProb)
	_, err = Chance(nil, 1.1)
	assert.ErrorIs(t, err, ErrInvalidProb)
}

func TestChanceUsesSource(t *testing.T) {
	hit, err := Chance(fixed(0.01), 1.0/51)
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = Chance(fixed(0.5), 1.0/51)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestPickWeighted(t *testing.T) {
	weights := []uint{100, 1, 1}

	i, err := Pick(fixed(0), weights)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	// 100.5 / 102 falls in the second bucket.
	i, err = Pick(fixed(100.5/102), weights)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = Pick(fixed(0.9999999), weights)
	require.NoError(t, err)
	assert.Equal(t, 2, i)
}

func TestPickSkipsZeroWeights(t *testing.T) {
	i, err := Pick(fixed(0.9999999), []uint{3, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = Pick(fixed(0.5), []uint{0, 0})
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestSeededIsReproducible(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestChanceStatApprox(t *testing.T) {
	const p = 0.3
	const n = 100000
	src := NewSeeded(7)
	hits := 0
	for i := 0; i < n; i++ {
		ok, err := Chance(src, p)
		require.NoError(t, err)
		if ok {
			hits++
		}
	}
	assert.InDelta(t, p, float64(hits)/n, 0.01)
}

func TestCryptoRange(t *testing.T) {
	src := Crypto()
	for i := 0; i < 1000; i++ {
		f := src.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}
