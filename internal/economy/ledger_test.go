package economy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerCreditDebit(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Credit(CurrencyCookie, 40))
	require.NoError(t, l.Debit(CurrencyCookie, 15))
	assert.Equal(t, uint64(25), l.Balance(CurrencyCookie))
	assert.Zero(t, l.Balance(CurrencyDarkChocolate))
}

func TestLedgerDebitNeverClamps(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Credit(CurrencyCookie, 10))

	err := l.Debit(CurrencyCookie, 11)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, uint64(10), l.Balance(CurrencyCookie), "failed debit must not touch the balance")

	err = l.Debit(CurrencyDarkChocolate, 1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Zero(t, l.Balance(CurrencyDarkChocolate))
}

func TestLedgerCreditOverflow(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Credit(CurrencyCookie, math.MaxUint64))
	assert.ErrorIs(t, l.Credit(CurrencyCookie, 1), ErrOverflow)
	assert.Equal(t, uint64(math.MaxUint64), l.Balance(CurrencyCookie))
}

func TestLedgerCreditAllIsAtomic(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Credit(CurrencyDarkChocolate, math.MaxUint64))

	err := l.CreditAll(Yield{CurrencyCookie: 7, CurrencyDarkChocolate: 1})
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Zero(t, l.Balance(CurrencyCookie), "no entry may be credited when one overflows")

	require.NoError(t, l.CreditAll(Yield{CurrencyCookie: 7}))
	assert.Equal(t, uint64(7), l.Balance(CurrencyCookie))
}

func TestLedgerSnapshotIsCopy(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Credit(CurrencyCookie, 3))
	snap := l.Snapshot()
	snap[CurrencyCookie] = 99
	assert.Equal(t, uint64(3), l.Balance(CurrencyCookie))
	assert.Contains(t, snap, CurrencyDarkChocolate)
}

func TestHoldings(t *testing.T) {
	h := NewHoldings()
	require.NoError(t, h.Increase(FactoryRobot, 3))
	require.NoError(t, h.Decrease(FactoryRobot, 2))
	assert.Equal(t, uint64(1), h.Count(FactoryRobot))

	err := h.Decrease(FactoryRobot, 2)
	assert.ErrorIs(t, err, ErrInsufficientHoldings)
	assert.Equal(t, uint64(1), h.Count(FactoryRobot))

	snap := h.Snapshot()
	assert.Len(t, snap, len(Factories))
	assert.Equal(t, uint64(1), snap[FactoryRobot])
}

func TestYieldScale(t *testing.T) {
	y := Yield{CurrencyCookie: 260, CurrencyDarkChocolate: 1}
	scaled, err := y.Scale(10)
	require.NoError(t, err)
	assert.Equal(t, Yield{CurrencyCookie: 2600, CurrencyDarkChocolate: 10}, scaled)
	assert.Equal(t, uint64(260), y[CurrencyCookie], "Scale must not mutate the receiver")

	_, err = y.Scale(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestParseNames(t *testing.T) {
	f, err := ParseFactory(" Takodachi ")
	require.NoError(t, err)
	assert.Equal(t, FactoryTakodachi, f)

	_, err = ParseFactory("castle")
	assert.ErrorIs(t, err, ErrUnknownItem)

	c, err := ParseCurrency("dark_chocolate")
	require.NoError(t, err)
	assert.Equal(t, CurrencyDarkChocolate, c)

	_, err = ParseCurrency("gold")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestCostString(t *testing.T) {
	assert.Equal(t, "20,000 cookie", Cost{Currency: CurrencyCookie, Amount: 20000}.String())
	assert.Equal(t, "25 dark_chocolate", Cost{Currency: CurrencyDarkChocolate, Amount: 25}.String())
	assert.Equal(t, "18,446,744,073,709,551,615", Comma(math.MaxUint64))
}
