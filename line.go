package portfolio

import (
	"fmt"
	"time"

	"github.com/enertrade/portfolio/tseries"
	"github.com/shopspring/decimal"
)

// Line is a portfolio line: a timeseries value with a kind and a flat or
// nested shape. A flat line stores one series bundle in canonical units
// (energy for Volume, price for Price, revenue for Revenue, energy plus
// revenue for Complete; the price of a Complete line is always derived as
// revenue over energy). A nested line stores an ordered collection of named
// children that all share its kind and index; its own values are computed
// from the children, never stored.
//
// A Line is immutable: every operation returns a new Line.
type Line struct {
	kind     Kind
	idx      tseries.Index
	q, p, r  tseries.Series
	children []Child
}

// Child is one named component of a nested line.
type Child struct {
	Name string
	Line *Line
}

func flatVolume(q tseries.Series) *Line {
	return &Line{kind: Volume, idx: q.Index(), q: q}
}

func flatPrice(p tseries.Series) *Line {
	return &Line{kind: Price, idx: p.Index(), p: p}
}

func flatRevenue(r tseries.Series) *Line {
	return &Line{kind: Revenue, idx: r.Index(), r: r}
}

func flatComplete(q, r tseries.Series) *Line {
	return &Line{kind: Complete, idx: q.Index(), q: q, r: r}
}

func newNested(kind Kind, children []Child) *Line {
	return &Line{kind: kind, idx: children[0].Line.idx, children: children}
}

func (l *Line) Kind() Kind           { return l.kind }
func (l *Line) IsFlat() bool         { return l.children == nil }
func (l *Line) IsNested() bool       { return l.children != nil }
func (l *Line) Index() tseries.Index { return l.idx }

// mustOp unwraps series operations that cannot fail on the index-validated
// internals of a line.
func mustOp(s tseries.Series, err error) tseries.Series {
	if err != nil {
		panic(fmt.Sprintf("internal series mismatch: %v", err))
	}
	return s
}

// energy returns the aggregate energy series. Valid for Volume and Complete.
func (l *Line) energy() tseries.Series {
	if l.IsFlat() {
		return l.q
	}
	sum := l.children[0].Line.energy()
	for _, c := range l.children[1:] {
		sum = mustOp(sum.Add(c.Line.energy()))
	}
	return sum
}

// revenue returns the aggregate revenue series. Valid for Revenue and Complete.
func (l *Line) revenue() tseries.Series {
	if l.IsFlat() {
		return l.r
	}
	sum := l.children[0].Line.revenue()
	for _, c := range l.children[1:] {
		sum = mustOp(sum.Add(c.Line.revenue()))
	}
	return sum
}

// price returns the aggregate price series. For a Complete line this is
// aggregate revenue over aggregate energy, never an average of child prices.
// A period whose aggregate volume is zero while its revenue is not (e.g. a
// book whose long and short children net out at different prices) has no
// defined price and errors.
func (l *Line) price() (tseries.Series, error) {
	if l.kind == Complete {
		p, err := l.revenue().Div(l.energy())
		if err != nil {
			return tseries.Series{}, fmt.Errorf("nonzero revenue over zero volume has no price: %w", ErrInconsistent)
		}
		return p, nil
	}
	return l.priceMean(), nil
}

// priceMean aggregates a bare Price line. No weights exist without volume;
// children combine as their plain per-period average, the only
// duration-consistent choice on a shared index.
func (l *Line) priceMean() tseries.Series {
	if l.IsFlat() {
		return l.p
	}
	sum := l.children[0].Line.priceMean()
	for _, c := range l.children[1:] {
		sum = mustOp(sum.Add(c.Line.priceMean()))
	}
	n := decimal.NewFromInt(int64(len(l.children)))
	return mustOp(sum.Div(tseries.Constant(sum.Index(), n)))
}

// Energy returns the energy series [MWh-canonical] of a Volume or Complete line.
func (l *Line) Energy() (tseries.Series, error) {
	if l.kind != Volume && l.kind != Complete {
		return tseries.Series{}, fmt.Errorf("%s line has no volume: %w", l.kind, ErrShape)
	}
	return l.energy(), nil
}

// Power returns the power series: energy divided by period duration.
func (l *Line) Power() (tseries.Series, error) {
	q, err := l.Energy()
	if err != nil {
		return tseries.Series{}, err
	}
	return q.Div(tseries.DurationSeries(l.idx))
}

// PriceSeries returns the price series of a Price or Complete line.
func (l *Line) PriceSeries() (tseries.Series, error) {
	if l.kind != Price && l.kind != Complete {
		return tseries.Series{}, fmt.Errorf("%s line has no price: %w", l.kind, ErrShape)
	}
	return l.price()
}

// RevenueSeries returns the revenue series of a Revenue or Complete line.
func (l *Line) RevenueSeries() (tseries.Series, error) {
	if l.kind != Revenue && l.kind != Complete {
		return tseries.Series{}, fmt.Errorf("%s line has no revenue: %w", l.kind, ErrShape)
	}
	return l.revenue(), nil
}

// Volume extracts the volume of a Complete line as a flat Volume line. A
// Volume line is returned unchanged.
func (l *Line) Volume() (*Line, error) {
	switch l.kind {
	case Volume:
		return l, nil
	case Complete:
		return flatVolume(l.energy()), nil
	default:
		return nil, fmt.Errorf("cannot extract volume from %s line: %w", l.kind, ErrShape)
	}
}

// PriceLine extracts the price of a Complete line as a flat Price line. The
// line is flattened first, so the price is aggregate revenue over aggregate
// volume. A Price line is returned unchanged.
func (l *Line) PriceLine() (*Line, error) {
	switch l.kind {
	case Price:
		return l, nil
	case Complete:
		p, err := l.price()
		if err != nil {
			return nil, err
		}
		return flatPrice(p), nil
	default:
		return nil, fmt.Errorf("cannot extract price from %s line: %w", l.kind, ErrShape)
	}
}

// RevenueLine extracts the revenue of a Complete line as a flat Revenue line.
// A Revenue line is returned unchanged.
func (l *Line) RevenueLine() (*Line, error) {
	switch l.kind {
	case Revenue:
		return l, nil
	case Complete:
		return flatRevenue(l.revenue()), nil
	default:
		return nil, fmt.Errorf("cannot extract revenue from %s line: %w", l.kind, ErrShape)
	}
}

// Flatten collapses a nested line into a flat line holding its computed
// aggregate. A flat line is returned unchanged.
func (l *Line) Flatten() *Line {
	if l.IsFlat() {
		return l
	}
	switch l.kind {
	case Volume:
		return flatVolume(l.energy())
	case Price:
		return flatPrice(l.priceMean())
	case Revenue:
		return flatRevenue(l.revenue())
	default:
		return flatComplete(l.energy(), l.revenue())
	}
}

// Child returns the named child of a nested line.
func (l *Line) Child(name string) (*Line, error) {
	for _, c := range l.children {
		if c.Name == name {
			return c.Line, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrNoChild)
}

// Children returns the (name, child) pairs in insertion order.
func (l *Line) Children() []Child {
	out := make([]Child, len(l.children))
	copy(out, l.children)
	return out
}

// Names returns the child names in insertion order.
func (l *Line) Names() []string {
	names := make([]string, len(l.children))
	for i, c := range l.children {
		names[i] = c.Name
	}
	return names
}

// WithChild returns a new nested line with the named child inserted, or
// replaced if the name already exists. The child must match the line's kind
// and index.
func (l *Line) WithChild(name string, child *Line) (*Line, error) {
	if l.IsFlat() {
		return nil, fmt.Errorf("cannot add child to a flat line: %w", ErrShape)
	}
	if child.kind != l.kind {
		return nil, fmt.Errorf("cannot add %s child to %s line: %w", child.kind, l.kind, ErrShape)
	}
	if !child.idx.Equal(l.idx) {
		return nil, fmt.Errorf("child %q has a different index: %w", name, ErrShape)
	}
	children := l.Children()
	for i, c := range children {
		if c.Name == name {
			children[i] = Child{Name: name, Line: child}
			return newNested(l.kind, children), nil
		}
	}
	return newNested(l.kind, append(children, Child{Name: name, Line: child})), nil
}

// DropChild returns a new nested line without the named child. Dropping the
// last child is not allowed: a nested line always has at least one child.
func (l *Line) DropChild(name string) (*Line, error) {
	if l.IsFlat() {
		return nil, fmt.Errorf("flat line has no children: %w", ErrShape)
	}
	if _, err := l.Child(name); err != nil {
		return nil, err
	}
	if len(l.children) == 1 {
		return nil, fmt.Errorf("dropping %q would leave a nested line without children: %w", name, ErrInvariant)
	}
	children := make([]Child, 0, len(l.children)-1)
	for _, c := range l.children {
		if c.Name != name {
			children = append(children, c)
		}
	}
	return newNested(l.kind, children), nil
}

// Scale multiplies the line by a bare factor. Defined for every kind and
// shape; nesting is preserved. A Complete line scales its volume and revenue,
// leaving the price unchanged.
func (l *Line) Scale(f decimal.Decimal) *Line {
	if l.IsNested() {
		children := make([]Child, len(l.children))
		for i, c := range l.children {
			children[i] = Child{Name: c.Name, Line: c.Line.Scale(f)}
		}
		return newNested(l.kind, children)
	}
	switch l.kind {
	case Volume:
		return flatVolume(l.q.Scale(f))
	case Price:
		return flatPrice(l.p.Scale(f))
	case Revenue:
		return flatRevenue(l.r.Scale(f))
	default:
		return flatComplete(l.q.Scale(f), l.r.Scale(f))
	}
}

// Neg is scaling by -1.
func (l *Line) Neg() *Line { return l.Scale(decimal.NewFromInt(-1)) }

// ScaleSeries multiplies the line pointwise by a dimensionless series over
// the same index. Nesting is preserved.
func (l *Line) ScaleSeries(s tseries.Series) (*Line, error) {
	if !s.Index().Equal(l.idx) {
		return nil, fmt.Errorf("scaling series has a different index: %w", tseries.ErrIndex)
	}
	return l.mapSeries(func(v tseries.Series) (tseries.Series, error) { return v.Mul(s) })
}

// DivSeries divides the line pointwise by a dimensionless series over the
// same index. Nesting is preserved.
func (l *Line) DivSeries(s tseries.Series) (*Line, error) {
	if !s.Index().Equal(l.idx) {
		return nil, fmt.Errorf("dividing series has a different index: %w", tseries.ErrIndex)
	}
	return l.mapSeries(func(v tseries.Series) (tseries.Series, error) { return v.Div(s) })
}

// mapSeries applies fn to the summable content of the line, recursing into
// children.
func (l *Line) mapSeries(fn func(tseries.Series) (tseries.Series, error)) (*Line, error) {
	if l.IsNested() {
		children := make([]Child, len(l.children))
		for i, c := range l.children {
			cl, err := c.Line.mapSeries(fn)
			if err != nil {
				return nil, err
			}
			children[i] = Child{Name: c.Name, Line: cl}
		}
		return newNested(l.kind, children), nil
	}
	switch l.kind {
	case Volume:
		q, err := fn(l.q)
		if err != nil {
			return nil, err
		}
		return flatVolume(q), nil
	case Price:
		p, err := fn(l.p)
		if err != nil {
			return nil, err
		}
		return flatPrice(p), nil
	case Revenue:
		r, err := fn(l.r)
		if err != nil {
			return nil, err
		}
		return flatRevenue(r), nil
	default:
		q, err := fn(l.q)
		if err != nil {
			return nil, err
		}
		r, err := fn(l.r)
		if err != nil {
			return nil, err
		}
		return flatComplete(q, r), nil
	}
}

// AsFreq resamples the line to another regular frequency, treating every
// dimension by its semantic class: energy and revenue are summable, a
// standalone price is averagable (duration-weighted), and the price of a
// Complete line is re-derived from the resampled energy and revenue, which
// makes it energy-weighted. A nested line resamples each child independently
// and keeps its structure.
func (l *Line) AsFreq(f tseries.Freq) (*Line, error) {
	if l.IsNested() {
		children := make([]Child, len(l.children))
		for i, c := range l.children {
			cl, err := c.Line.AsFreq(f)
			if err != nil {
				return nil, err
			}
			children[i] = Child{Name: c.Name, Line: cl}
		}
		return newNested(l.kind, children), nil
	}
	switch l.kind {
	case Volume:
		q, err := tseries.ResampleSummable(l.q, f)
		if err != nil {
			return nil, err
		}
		return flatVolume(q), nil
	case Price:
		p, err := tseries.ResampleAveragable(l.p, f)
		if err != nil {
			return nil, err
		}
		return flatPrice(p), nil
	case Revenue:
		r, err := tseries.ResampleSummable(l.r, f)
		if err != nil {
			return nil, err
		}
		return flatRevenue(r), nil
	default:
		q, err := tseries.ResampleSummable(l.q, f)
		if err != nil {
			return nil, err
		}
		r, err := tseries.ResampleSummable(l.r, f)
		if err != nil {
			return nil, err
		}
		return flatComplete(q, r), nil
	}
}

// Slice returns the sub-line covering [from, to) on period boundaries.
func (l *Line) Slice(from, to time.Time) (*Line, error) {
	if l.IsNested() {
		children := make([]Child, len(l.children))
		for i, c := range l.children {
			cl, err := c.Line.Slice(from, to)
			if err != nil {
				return nil, err
			}
			children[i] = Child{Name: c.Name, Line: cl}
		}
		return newNested(l.kind, children), nil
	}
	return l.mapSeries(func(v tseries.Series) (tseries.Series, error) { return v.Slice(from, to) })
}
