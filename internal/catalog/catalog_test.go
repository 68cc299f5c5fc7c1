package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/cookie-world/internal/economy"
	"github.com/talgya/cookie-world/internal/effects"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.Len(t, c.Factories, len(economy.Factories))
	tako := c.Factories[economy.FactoryTakodachi]
	assert.Equal(t, economy.Cost{Currency: economy.CurrencyCookie, Amount: 5}, tako.Price)
	assert.Equal(t, economy.Yield{economy.CurrencyCookie: 1}, tako.Yield)

	mine := c.Factories[economy.FactoryMine]
	assert.Equal(t, uint64(5000), mine.Price.Amount)
	assert.Equal(t, uint64(1), mine.Yield[economy.CurrencyDarkChocolate])

	assert.Equal(t, economy.CurrencyDarkChocolate, c.Effects[effects.Luck].Currency)
	assert.Equal(t, uint64(100), c.LuckyDraw.Price.Amount)

	require.Len(t, c.LuckyDraw.Table, 3)
	assert.Nil(t, c.LuckyDraw.Table[0].Effect)
	assert.Equal(t, uint(100), c.LuckyDraw.Table[0].Weight)
	require.NotNil(t, c.LuckyDraw.Table[1].Effect)
	assert.Equal(t, effects.Luck, *c.LuckyDraw.Table[1].Effect)
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	a, err := Load("")
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestLoadFromFile(t *testing.T) {
	doc := string(defaultYAML) + "\n"
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Effects, len(effects.Kinds))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateAggregatesErrors(t *testing.T) {
	doc := `
factories:
  takodachi:
    price: {currency: cookie, amount: 0}
    yield: {cookie: 1}
  spaceship:
    price: {currency: cookie, amount: 10}
    yield: {cookie: 1}
effects:
  inanis: {currency: gold, amount: 500}
lucky_draw:
  price: {currency: cookie, amount: 100}
  prizes:
    - {prize: jackpot, weight: 0}
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"factories.robot is required",
		"factories.spaceship: unknown factory",
		"factories.takodachi.price.amount must be >= 1",
		"effects.darkness is required",
		`effects.inanis.currency: unknown currency "gold"`,
		`lucky_draw.prizes[0]: unknown prize "jackpot"`,
		"at least one positive weight",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateBoundsYield(t *testing.T) {
	raw := validRaw(t)
	f := raw.Factories["farm"]
	f.Yield = map[string]uint64{"cookie": MaxYield + 1}
	raw.Factories["farm"] = f

	err := ValidateRaw(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factories.farm.yield.cookie must be <=")
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("factories: [oops"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode yaml")
}

func validRaw(t *testing.T) RawConfig {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)

	raw := RawConfig{
		Factories: map[string]RawFactory{},
		Effects:   map[string]RawPrice{},
		LuckyDraw: RawLuckyDraw{
			Price:  RawPrice{Currency: "cookie", Amount: 1},
			Prizes: []RawPrize{{Prize: BlankPrize, Weight: 1}},
		},
	}
	for kind, f := range c.Factories {
		y := map[string]uint64{}
		for cur, v := range f.Yield {
			y[cur.String()] = v
		}
		raw.Factories[kind.String()] = RawFactory{
			Price: RawPrice{Currency: f.Price.Currency.String(), Amount: f.Price.Amount},
			Yield: y,
		}
	}
	for kind, p := range c.Effects {
		raw.Effects[kind.String()] = RawPrice{Currency: p.Currency.String(), Amount: p.Amount}
	}
	require.NoError(t, ValidateRaw(raw))
	return raw
}
