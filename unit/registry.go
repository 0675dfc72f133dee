package unit

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Unit is a named unit of measure with a fixed conversion factor into the
// canonical unit of its dimension. The canonical unit itself has factor 1.
type Unit struct {
	Symbol string
	Dim    Dim
	Factor decimal.Decimal
}

// IsCanonical reports whether this unit is the storage unit of its dimension.
func (u Unit) IsCanonical() bool { return u.Factor.Equal(decimal.NewFromInt(1)) }

// Registry holds the canonical-unit table and conversion factors used at the
// core's boundary. It is built once (from config or DefaultRegistry) and is
// immutable afterwards, so concurrent reads are safe.
type Registry struct {
	currency  string
	canonical [nDims]Unit
	units     map[string]Unit // key: lowercased symbol
}

// NewRegistry builds a registry from an explicit unit table. Exactly one unit
// per dimension must have factor 1 (the canonical unit), and the currency code
// must be known to the ISO-4217 table.
func NewRegistry(currency string, units []Unit) (*Registry, error) {
	if money.GetCurrency(currency) == nil {
		return nil, fmt.Errorf("unknown currency code %q", currency)
	}
	r := &Registry{currency: currency, units: make(map[string]Unit, len(units)+1)}

	// Dimensionless values carry the empty symbol.
	nodim := Unit{Symbol: "", Dim: Dimensionless, Factor: decimal.NewFromInt(1)}
	r.canonical[Dimensionless] = nodim
	r.units[""] = nodim

	for _, u := range units {
		key := strings.ToLower(u.Symbol)
		if key == "" {
			return nil, fmt.Errorf("unit for %s has empty symbol", u.Dim)
		}
		if _, ok := r.units[key]; ok {
			return nil, fmt.Errorf("duplicate unit symbol %q", u.Symbol)
		}
		if !u.Factor.IsPositive() {
			return nil, fmt.Errorf("unit %q has non-positive factor %s", u.Symbol, u.Factor)
		}
		if u.IsCanonical() {
			if c := r.canonical[u.Dim]; c.Symbol != "" {
				return nil, fmt.Errorf("two canonical units for %s: %q and %q", u.Dim, c.Symbol, u.Symbol)
			}
			r.canonical[u.Dim] = u
		}
		r.units[key] = u
	}
	for _, d := range []Dim{Power, Energy, Price, Revenue} {
		if r.canonical[d].Symbol == "" {
			return nil, fmt.Errorf("no canonical unit defined for %s", d)
		}
	}
	return r, nil
}

// Currency returns the ISO-4217 code of the monetary unit.
func (r *Registry) Currency() string { return r.currency }

// Canonical returns the storage unit of a dimension.
func (r *Registry) Canonical(d Dim) Unit { return r.canonical[d] }

// Parse resolves a unit symbol (case-insensitive).
func (r *Registry) Parse(symbol string) (Unit, error) {
	u, ok := r.units[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok {
		return Unit{}, fmt.Errorf("unknown unit %q", symbol)
	}
	return u, nil
}

// DimOf infers the dimension carried by a unit symbol.
func (r *Registry) DimOf(symbol string) (Dim, error) {
	u, err := r.Parse(symbol)
	if err != nil {
		return Dimensionless, err
	}
	return u.Dim, nil
}

// Convert expresses a value given in the named unit in the canonical unit of
// its dimension, returning the converted magnitude and the dimension.
func (r *Registry) Convert(value decimal.Decimal, symbol string) (decimal.Decimal, Dim, error) {
	u, err := r.Parse(symbol)
	if err != nil {
		return decimal.Decimal{}, Dimensionless, err
	}
	return value.Mul(u.Factor), u.Dim, nil
}

// Quantity parses symbol and returns the value as a canonical quantity.
func (r *Registry) Quantity(value decimal.Decimal, symbol string) (Quantity, error) {
	v, dim, err := r.Convert(value, symbol)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{value: v, dim: dim}, nil
}

// Format renders a quantity with its canonical unit. Monetary amounts
// (revenue) are formatted with the registry currency.
func (r *Registry) Format(q Quantity) string {
	switch q.Dim() {
	case Revenue:
		cur := money.GetCurrency(r.currency)
		minor := q.Decimal().Shift(int32(cur.Fraction)).Round(0)
		return cur.Formatter().Format(minor.IntPart())
	case Price:
		return fmt.Sprintf("%s %s", q, r.canonical[Price].Symbol)
	case Dimensionless:
		return q.String()
	default:
		return fmt.Sprintf("%s %s", q, r.canonical[q.Dim()].Symbol)
	}
}
