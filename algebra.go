package portfolio

import (
	"fmt"

	"github.com/enertrade/portfolio/tseries"
	"github.com/enertrade/portfolio/unit"
	"github.com/shopspring/decimal"
)

// Tag names one dimension of portfolio-line construction input.
type Tag string

const (
	TagPower   Tag = "w" // power [MW-canonical]
	TagEnergy  Tag = "q" // energy [MWh-canonical]
	TagPrice   Tag = "p" // price [EUR/MWh-canonical]
	TagRevenue Tag = "r" // revenue [EUR-canonical]
)

// Algebra is the context object for portfolio-line construction and binary
// arithmetic: the unit registry, the numeric tolerance for consistency checks
// of over-determined input, and the sink for lossy-operation warnings. Build
// it once and treat it as immutable; concurrent use is safe.
type Algebra struct {
	reg  *unit.Registry
	tol  decimal.Decimal
	warn WarnFunc
}

// Option configures an Algebra at construction.
type Option func(*Algebra)

// WithTolerance sets the relative tolerance for consistency checks of
// over-determined construction input.
func WithTolerance(tol decimal.Decimal) Option {
	return func(a *Algebra) { a.tol = tol }
}

// WithWarnings sets the sink receiving lossy-operation warnings.
func WithWarnings(fn WarnFunc) Option {
	return func(a *Algebra) { a.warn = fn }
}

// NewAlgebra builds the arithmetic context. A nil registry selects the
// built-in default registry; the default tolerance is 1e-5 (relative).
func NewAlgebra(reg *unit.Registry, opts ...Option) *Algebra {
	if reg == nil {
		reg = unit.DefaultRegistry()
	}
	a := &Algebra{reg: reg, tol: decimal.New(1, -5)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the unit registry in use.
func (a *Algebra) Registry() *unit.Registry { return a.reg }

// Tolerance returns the relative tolerance for consistency checks.
func (a *Algebra) Tolerance() decimal.Decimal { return a.tol }

func (a *Algebra) warnf(op, format string, args ...any) {
	if a.warn != nil {
		a.warn(Warning{Op: op, Reason: fmt.Sprintf(format, args...)})
	}
}

// Flat builds a flat line from dimension-tagged series in canonical units.
// The kind is inferred from the tags: w and/or q make a Volume line, p a
// Price line, r a Revenue line, and any two of {volume, p, r} a Complete
// line, deriving the third from revenue = price × energy. Over-determined
// input must agree within the tolerance.
func (a *Algebra) Flat(data map[Tag]tseries.Series) (*Line, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no dimensions supplied: %w", ErrInsufficientData)
	}
	var w, q, p, r *tseries.Series
	for tag := range data {
		s := data[tag]
		switch tag {
		case TagPower:
			w = &s
		case TagEnergy:
			q = &s
		case TagPrice:
			p = &s
		case TagRevenue:
			r = &s
		default:
			return nil, fmt.Errorf("unknown dimension tag %q: %w", tag, ErrAmbiguousDimension)
		}
	}

	// All series must share one index.
	var idx *tseries.Index
	for _, s := range []*tseries.Series{w, q, p, r} {
		if s == nil {
			continue
		}
		if idx == nil {
			i := s.Index()
			idx = &i
		} else if !s.Index().Equal(*idx) {
			return nil, fmt.Errorf("input series have different indices: %w", tseries.ErrIndex)
		}
	}

	// Resolve power into energy.
	if w != nil {
		qw, err := w.Mul(tseries.DurationSeries(*idx))
		if err != nil {
			return nil, err
		}
		if q != nil && !q.Within(qw, a.tol) {
			return nil, fmt.Errorf("supplied power and energy disagree: %w", ErrInconsistent)
		}
		if q == nil {
			q = &qw
		}
	}

	switch {
	case q != nil && p == nil && r == nil:
		return flatVolume(*q), nil
	case q == nil && p != nil && r == nil:
		return flatPrice(*p), nil
	case q == nil && p == nil && r != nil:
		return flatRevenue(*r), nil
	case q != nil && p != nil:
		rd, err := q.Mul(*p)
		if err != nil {
			return nil, err
		}
		if r != nil && !r.Within(rd, a.tol) {
			return nil, fmt.Errorf("supplied revenue deviates from price × energy: %w", ErrInconsistent)
		}
		if r != nil {
			return flatComplete(*q, *r), nil
		}
		return flatComplete(*q, rd), nil
	case q != nil && r != nil:
		if _, err := r.Div(*q); err != nil {
			return nil, fmt.Errorf("revenue without volume has no price: %w", ErrInconsistent)
		}
		return flatComplete(*q, *r), nil
	case p != nil && r != nil:
		qd, err := r.Div(*p)
		if err != nil {
			return nil, fmt.Errorf("cannot derive volume from revenue and price: %w", ErrInconsistent)
		}
		return flatComplete(qd, *r), nil
	default:
		return nil, fmt.Errorf("cannot infer kind from supplied dimensions: %w", ErrInsufficientData)
	}
}

// FlatConstant builds a flat line from per-dimension constants broadcast over
// idx, in canonical units.
func (a *Algebra) FlatConstant(idx tseries.Index, data map[Tag]decimal.Decimal) (*Line, error) {
	series := make(map[Tag]tseries.Series, len(data))
	for tag, v := range data {
		series[tag] = tseries.Constant(idx, v)
	}
	return a.Flat(series)
}

// FlatFromUnit builds a flat line from a single series whose dimension is
// inferred from its unit symbol; values are converted into the canonical
// unit. A dimensionless series is rejected: without a dimension no kind can
// be inferred.
func (a *Algebra) FlatFromUnit(s tseries.Series, symbol string) (*Line, error) {
	u, err := a.reg.Parse(symbol)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrAmbiguousDimension)
	}
	canonical := s.Scale(u.Factor)
	switch u.Dim {
	case unit.Power:
		return a.Flat(map[Tag]tseries.Series{TagPower: canonical})
	case unit.Energy:
		return flatVolume(canonical), nil
	case unit.Price:
		return flatPrice(canonical), nil
	case unit.Revenue:
		return flatRevenue(canonical), nil
	default:
		return nil, fmt.Errorf("unit %q carries no dimension: %w", symbol, ErrAmbiguousDimension)
	}
}

// Nested builds a nested line from named children. At least one child is
// required; all children must share one kind and one index, and names must be
// unique.
func (a *Algebra) Nested(children ...Child) (*Line, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("nested line needs at least one child: %w", ErrInvariant)
	}
	kind := children[0].Line.kind
	idx := children[0].Line.idx
	seen := make(map[string]bool, len(children))
	for _, c := range children {
		if c.Name == "" {
			return nil, fmt.Errorf("child name must not be empty: %w", ErrShape)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate child name %q: %w", c.Name, ErrShape)
		}
		seen[c.Name] = true
		if c.Line.kind != kind {
			return nil, fmt.Errorf("children have different kinds (%s and %s): %w", kind, c.Line.kind, ErrShape)
		}
		if !c.Line.idx.Equal(idx) {
			return nil, fmt.Errorf("child %q has a different index: %w", c.Name, ErrShape)
		}
	}
	cs := make([]Child, len(children))
	copy(cs, children)
	return newNested(kind, cs), nil
}
