package tseries

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Series is one value per delivery period of a regular index. Values are
// plain magnitudes; the dimension they carry is tracked by the caller. A
// Series is an immutable value; every operation returns a new Series.
type Series struct {
	idx  Index
	vals []decimal.Decimal
}

// NewSeries pairs an index with one value per period.
func NewSeries(idx Index, vals []decimal.Decimal) (Series, error) {
	if len(vals) != idx.Len() {
		return Series{}, fmt.Errorf("got %d values for index of %d periods: %w", len(vals), idx.Len(), ErrIndex)
	}
	s := Series{idx: idx, vals: make([]decimal.Decimal, len(vals))}
	copy(s.vals, vals)
	return s, nil
}

// Constant returns a series holding the same value in every period.
func Constant(idx Index, v decimal.Decimal) Series {
	vals := make([]decimal.Decimal, idx.Len())
	for p := range vals {
		vals[p] = v
	}
	return Series{idx: idx, vals: vals}
}

// Zero returns an all-zero series over idx.
func Zero(idx Index) Series { return Constant(idx, decimal.Decimal{}) }

func (s Series) Index() Index             { return s.idx }
func (s Series) Len() int                 { return s.idx.Len() }
func (s Series) At(p int) decimal.Decimal { return s.vals[p] }

// Values returns a copy of the per-period values.
func (s Series) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.vals))
	copy(out, s.vals)
	return out
}

// Sum returns the sum over all periods.
func (s Series) Sum() decimal.Decimal {
	var total decimal.Decimal
	for _, v := range s.vals {
		total = total.Add(v)
	}
	return total
}

func (s Series) apply(fn func(decimal.Decimal) decimal.Decimal) Series {
	vals := make([]decimal.Decimal, len(s.vals))
	for p, v := range s.vals {
		vals[p] = fn(v)
	}
	return Series{idx: s.idx, vals: vals}
}

// Scale multiplies every value by a bare factor.
func (s Series) Scale(f decimal.Decimal) Series {
	return s.apply(func(v decimal.Decimal) decimal.Decimal { return v.Mul(f) })
}

// Neg flips the sign of every value.
func (s Series) Neg() Series { return s.Scale(decimal.NewFromInt(-1)) }

// Shift adds the same value to every period.
func (s Series) Shift(d decimal.Decimal) Series {
	return s.apply(func(v decimal.Decimal) decimal.Decimal { return v.Add(d) })
}

func (s Series) combine(o Series, fn func(a, b decimal.Decimal) (decimal.Decimal, error)) (Series, error) {
	if !s.idx.Equal(o.idx) {
		return Series{}, fmt.Errorf("series have different indices: %w", ErrIndex)
	}
	vals := make([]decimal.Decimal, len(s.vals))
	for p := range s.vals {
		v, err := fn(s.vals[p], o.vals[p])
		if err != nil {
			return Series{}, fmt.Errorf("period %d (%s): %w", p, s.idx.At(p), err)
		}
		vals[p] = v
	}
	return Series{idx: s.idx, vals: vals}, nil
}

// Add returns the pointwise sum. Indices must be equal.
func (s Series) Add(o Series) (Series, error) {
	return s.combine(o, func(a, b decimal.Decimal) (decimal.Decimal, error) { return a.Add(b), nil })
}

// Sub returns the pointwise difference. Indices must be equal.
func (s Series) Sub(o Series) (Series, error) {
	return s.combine(o, func(a, b decimal.Decimal) (decimal.Decimal, error) { return a.Sub(b), nil })
}

// Mul returns the pointwise product. Indices must be equal.
func (s Series) Mul(o Series) (Series, error) {
	return s.combine(o, func(a, b decimal.Decimal) (decimal.Decimal, error) { return a.Mul(b), nil })
}

// Div returns the pointwise quotient. Indices must be equal. A 0/0 period
// yields 0 (the "no volume, no value" convention); a nonzero value divided by
// zero is an error.
func (s Series) Div(o Series) (Series, error) {
	return s.combine(o, divSafe)
}

func divSafe(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		if a.IsZero() {
			return decimal.Decimal{}, nil
		}
		return decimal.Decimal{}, fmt.Errorf("division of %s by zero", a)
	}
	return a.Div(b), nil
}

// Equal reports exact equality of index and values.
func (s Series) Equal(o Series) bool {
	if !s.idx.Equal(o.idx) {
		return false
	}
	for p := range s.vals {
		if !s.vals[p].Equal(o.vals[p]) {
			return false
		}
	}
	return true
}

// Within reports whether both series agree per period within the given
// relative tolerance (absolute for values below one).
func (s Series) Within(o Series, tol decimal.Decimal) bool {
	if !s.idx.Equal(o.idx) {
		return false
	}
	for p := range s.vals {
		if !within(s.vals[p], o.vals[p], tol) {
			return false
		}
	}
	return true
}

func within(a, b, tol decimal.Decimal) bool {
	scale := decimal.NewFromInt(1)
	if abs := a.Abs(); abs.GreaterThan(scale) {
		scale = abs
	}
	if abs := b.Abs(); abs.GreaterThan(scale) {
		scale = abs
	}
	return a.Sub(b).Abs().LessThanOrEqual(tol.Mul(scale))
}

// Slice returns the sub-series covering [from, to) on period boundaries.
func (s Series) Slice(from, to time.Time) (Series, error) {
	idx, off, err := s.idx.Slice(from, to)
	if err != nil {
		return Series{}, err
	}
	return Series{idx: idx, vals: s.vals[off : off+idx.Len()]}, nil
}

// DurationSeries returns the per-period durations of idx, in hours, as a
// series over idx.
func DurationSeries(idx Index) Series {
	return Series{idx: idx, vals: idx.Durations()}
}

// Concat joins two series whose spans are adjacent: b must start where a
// ends, with the same frequency and location.
func Concat(a, b Series) (Series, error) {
	if a.idx.freq != b.idx.freq {
		return Series{}, fmt.Errorf("cannot concat %s series with %s series: %w", a.idx.freq, b.idx.freq, ErrIndex)
	}
	if a.idx.Location().String() != b.idx.Location().String() {
		return Series{}, fmt.Errorf("cannot concat series in different locations: %w", ErrIndex)
	}
	if !a.idx.End().Equal(b.idx.Start()) {
		return Series{}, fmt.Errorf("series are not adjacent: %s ends at %s, next starts at %s: %w",
			a.idx.freq, a.idx.End(), b.idx.Start(), ErrIndex)
	}
	idx := Index{start: a.idx.start, n: a.idx.n + b.idx.n, freq: a.idx.freq}
	vals := make([]decimal.Decimal, 0, idx.n)
	vals = append(vals, a.vals...)
	vals = append(vals, b.vals...)
	return Series{idx: idx, vals: vals}, nil
}
