// Package catalog loads the game constants: factory prices and yields,
// effect prices, and the lucky draw table.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/cookie-world/internal/economy"
	"github.com/talgya/cookie-world/internal/effects"
)

//go:embed default.yaml
var defaultYAML []byte

// MaxYield bounds a single base yield entry so that the doubling and luck
// modifiers cannot wrap a per-unit yield.
const MaxYield = 1 << 40

// BlankPrize names the lucky draw outcome that grants nothing.
const BlankPrize = "none"

// Factory is the static definition of one factory kind.
type Factory struct {
	Price economy.Cost
	Yield economy.Yield
}

// LuckyDraw is the price and prize table of the lucky draw.
type LuckyDraw struct {
	Price economy.Cost
	Table effects.DrawTable
}

// Catalog is a validated set of game constants.
type Catalog struct {
	Factories map[economy.FactoryKind]Factory
	Effects   map[effects.Kind]economy.Cost
	LuckyDraw LuckyDraw
}

// RawConfig mirrors the YAML document before names are resolved.
type RawConfig struct {
	Factories map[string]RawFactory `yaml:"factories"`
	Effects   map[string]RawPrice   `yaml:"effects"`
	LuckyDraw RawLuckyDraw          `yaml:"lucky_draw"`
}

type RawPrice struct {
	Currency string `yaml:"currency"`
	Amount   uint64 `yaml:"amount"`
}

type RawFactory struct {
	Price RawPrice          `yaml:"price"`
	Yield map[string]uint64 `yaml:"yield"`
}

type RawPrize struct {
	Prize  string `yaml:"prize"`
	Weight uint   `yaml:"weight"`
}

type RawLuckyDraw struct {
	Price  RawPrice   `yaml:"price"`
	Prizes []RawPrize `yaml:"prizes"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("default catalog: %w", err)
	}
	return c, nil
}

// Load reads a catalog from path. An empty path selects the built-in one.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document.
func Parse(b []byte) (*Catalog, error) {
	var raw RawConfig
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := ValidateRaw(raw); err != nil {
		return nil, err
	}
	return build(raw)
}

// ValidateRaw checks every constraint of raw and reports all problems at once.
func ValidateRaw(raw RawConfig) error {
	var errs []string

	for _, f := range economy.Factories {
		if _, ok := raw.Factories[f.String()]; !ok {
			errs = append(errs, fmt.Sprintf("factories.%s is required", f))
		}
	}
	for name, f := range raw.Factories {
		if _, err := economy.ParseFactory(name); err != nil {
			errs = append(errs, fmt.Sprintf("factories.%s: unknown factory", name))
			continue
		}
		errs = append(errs, checkPrice("factories."+name+".price", f.Price)...)
		if len(f.Yield) == 0 {
			errs = append(errs, fmt.Sprintf("factories.%s.yield must not be empty", name))
		}
		for cur, v := range f.Yield {
			if _, err := economy.ParseCurrency(cur); err != nil {
				errs = append(errs, fmt.Sprintf("factories.%s.yield.%s: unknown currency", name, cur))
			}
			if v > MaxYield {
				errs = append(errs, fmt.Sprintf("factories.%s.yield.%s must be <= %d", name, cur, uint64(MaxYield)))
			}
		}
	}

	for _, k := range effects.Kinds {
		if _, ok := raw.Effects[k.String()]; !ok {
			errs = append(errs, fmt.Sprintf("effects.%s is required", k))
		}
	}
	for name, p := range raw.Effects {
		if _, err := effects.Parse(name); err != nil {
			errs = append(errs, fmt.Sprintf("effects.%s: unknown effect", name))
			continue
		}
		errs = append(errs, checkPrice("effects."+name, p)...)
	}

	errs = append(errs, checkPrice("lucky_draw.price", raw.LuckyDraw.Price)...)
	var total uint64
	for i, p := range raw.LuckyDraw.Prizes {
		if p.Prize != BlankPrize {
			if _, err := effects.Parse(p.Prize); err != nil {
				errs = append(errs, fmt.Sprintf("lucky_draw.prizes[%d]: unknown prize %q", i, p.Prize))
			}
		}
		total += uint64(p.Weight)
	}
	if total == 0 {
		errs = append(errs, "lucky_draw.prizes needs at least one positive weight")
	}

	if len(errs) > 0 {
		return errors.New("catalog validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

func checkPrice(field string, p RawPrice) []string {
	var errs []string
	if _, err := economy.ParseCurrency(p.Currency); err != nil {
		errs = append(errs, fmt.Sprintf("%s.currency: unknown currency %q", field, p.Currency))
	}
	if p.Amount == 0 {
		errs = append(errs, field+".amount must be >= 1")
	}
	return errs
}

// build converts a validated RawConfig.
func build(raw RawConfig) (*Catalog, error) {
	c := &Catalog{
		Factories: make(map[economy.FactoryKind]Factory, len(raw.Factories)),
		Effects:   make(map[effects.Kind]economy.Cost, len(raw.Effects)),
	}

	for name, rf := range raw.Factories {
		kind, err := economy.ParseFactory(name)
		if err != nil {
			return nil, err
		}
		price, err := resolvePrice(rf.Price)
		if err != nil {
			return nil, err
		}
		y := make(economy.Yield, len(rf.Yield))
		for cur, v := range rf.Yield {
			cc, err := economy.ParseCurrency(cur)
			if err != nil {
				return nil, err
			}
			y[cc] = v
		}
		c.Factories[kind] = Factory{Price: price, Yield: y}
	}

	for name, rp := range raw.Effects {
		kind, err := effects.Parse(name)
		if err != nil {
			return nil, err
		}
		price, err := resolvePrice(rp)
		if err != nil {
			return nil, err
		}
		c.Effects[kind] = price
	}

	price, err := resolvePrice(raw.LuckyDraw.Price)
	if err != nil {
		return nil, err
	}
	c.LuckyDraw.Price = price
	for _, p := range raw.LuckyDraw.Prizes {
		prize := effects.Prize{Weight: p.Weight}
		if p.Prize != BlankPrize {
			kind, err := effects.Parse(p.Prize)
			if err != nil {
				return nil, err
			}
			prize.Effect = &kind
		}
		c.LuckyDraw.Table = append(c.LuckyDraw.Table, prize)
	}
	return c, nil
}

func resolvePrice(rp RawPrice) (economy.Cost, error) {
	cur, err := economy.ParseCurrency(rp.Currency)
	if err != nil {
		return economy.Cost{}, err
	}
	return economy.Cost{Currency: cur, Amount: rp.Amount}, nil
}
