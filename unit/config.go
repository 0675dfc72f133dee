package unit

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the YAML document describing a unit registry.
//
//	currency: EUR
//	units:
//	  - symbol: MW
//	    dimension: power
//	    factor: 1
type Config struct {
	Currency string       `yaml:"currency"`
	Units    []UnitConfig `yaml:"units"`
}

// UnitConfig is one unit entry in a registry config document. The factor is
// kept as a string until parsing, so values like 0.001 stay exact.
type UnitConfig struct {
	Symbol    string `yaml:"symbol"`
	Dimension string `yaml:"dimension"`
	Factor    string `yaml:"factor"`
}

// LoadRegistry reads a YAML registry config and builds the registry.
func LoadRegistry(in io.Reader) (*Registry, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("cannot read registry config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse registry config: %w", err)
	}
	return cfg.Registry()
}

// Registry builds the immutable registry described by the config.
func (c Config) Registry() (*Registry, error) {
	units := make([]Unit, 0, len(c.Units))
	for _, uc := range c.Units {
		dim, err := ParseDim(uc.Dimension)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", uc.Symbol, err)
		}
		factor, err := decimal.NewFromString(uc.Factor)
		if err != nil {
			return nil, fmt.Errorf("unit %q has no valid factor: %w", uc.Symbol, err)
		}
		units = append(units, Unit{Symbol: uc.Symbol, Dim: dim, Factor: factor})
	}
	r, err := NewRegistry(c.Currency, units)
	if err != nil {
		return nil, fmt.Errorf("invalid registry config: %w", err)
	}
	return r, nil
}

// DefaultRegistry returns the built-in registry: MW, MWh, EUR/MWh and EUR as
// canonical units, with the usual trade aliases.
func DefaultRegistry() *Registry {
	one := decimal.NewFromInt(1)
	kilo := decimal.NewFromInt(1000)
	milli := decimal.New(1, -3)
	r, err := NewRegistry("EUR", []Unit{
		{Symbol: "MW", Dim: Power, Factor: one},
		{Symbol: "kW", Dim: Power, Factor: milli},
		{Symbol: "GW", Dim: Power, Factor: kilo},
		{Symbol: "MWh", Dim: Energy, Factor: one},
		{Symbol: "kWh", Dim: Energy, Factor: milli},
		{Symbol: "GWh", Dim: Energy, Factor: kilo},
		{Symbol: "EUR/MWh", Dim: Price, Factor: one},
		{Symbol: "ct/kWh", Dim: Price, Factor: decimal.NewFromInt(10)},
		{Symbol: "EUR", Dim: Revenue, Factor: one},
		{Symbol: "kEUR", Dim: Revenue, Factor: kilo},
		{Symbol: "MEUR", Dim: Revenue, Factor: decimal.NewFromInt(1_000_000)},
	})
	if err != nil {
		panic(err) // built-in table is known to be valid
	}
	return r
}
