package portfolio

import (
	"fmt"

	"github.com/enertrade/portfolio/tseries"
	"github.com/enertrade/portfolio/unit"
	"github.com/shopspring/decimal"
)

// Binary arithmetic over portfolio lines. Every operator is total over the
// {kind, kind, shape, shape} input space: combinations outside its defined
// domain fail with a typed error, never with a silently wrong-kind result.
// The single lossy path, adding a flat and a nested line, flattens the
// nested operand and reports a Warning on the configured sink.

func (a *Algebra) checkIndex(op string, x, y *Line) error {
	if !x.idx.Equal(y.idx) {
		return fmt.Errorf("cannot %s lines with different indices: %w", op, tseries.ErrIndex)
	}
	return nil
}

// Add returns x + y. Both operands must have the same kind. Two nested
// operands merge their children by name union, combining shared names
// recursively; a flat and a nested operand produce a flat result after
// flattening the nested one (reported as a Warning).
func (a *Algebra) Add(x, y *Line) (*Line, error) {
	if x.kind != y.kind {
		return nil, fmt.Errorf("cannot add %s line to %s line: %w", y.kind, x.kind, ErrShape)
	}
	if err := a.checkIndex("add", x, y); err != nil {
		return nil, err
	}

	if x.IsNested() && y.IsNested() {
		return a.mergeChildren(x, y)
	}
	if x.IsNested() || y.IsNested() {
		a.warnf("add", "operands have different shapes; the nested %s line is flattened and its children are lost", x.kind)
		x, y = x.Flatten(), y.Flatten()
	}
	return addFlat(x, y)
}

// Sub returns x - y, defined as x + (-y).
func (a *Algebra) Sub(x, y *Line) (*Line, error) {
	return a.Add(x, y.Neg())
}

func addFlat(x, y *Line) (*Line, error) {
	switch x.kind {
	case Volume:
		q, err := x.q.Add(y.q)
		if err != nil {
			return nil, err
		}
		return flatVolume(q), nil
	case Price:
		p, err := x.p.Add(y.p)
		if err != nil {
			return nil, err
		}
		return flatPrice(p), nil
	case Revenue:
		r, err := x.r.Add(y.r)
		if err != nil {
			return nil, err
		}
		return flatRevenue(r), nil
	default: // Complete: the summable dimensions add; price is re-derived.
		q, err := x.q.Add(y.q)
		if err != nil {
			return nil, err
		}
		r, err := x.r.Add(y.r)
		if err != nil {
			return nil, err
		}
		return flatComplete(q, r), nil
	}
}

// mergeChildren combines two nested lines by name union: a name present in
// only one operand passes through unchanged (the zero line of the kind is the
// identity), a name present in both is added recursively.
func (a *Algebra) mergeChildren(x, y *Line) (*Line, error) {
	children := make([]Child, 0, len(x.children)+len(y.children))
	for _, cx := range x.children {
		if cy, err := y.Child(cx.Name); err == nil {
			sum, err := a.Add(cx.Line, cy)
			if err != nil {
				return nil, err
			}
			children = append(children, Child{Name: cx.Name, Line: sum})
		} else {
			children = append(children, cx)
		}
	}
	for _, cy := range y.children {
		if _, err := x.Child(cy.Name); err != nil {
			children = append(children, cy)
		}
	}
	return newNested(x.kind, children), nil
}

// AddScalar adds a bare numeric value to a Price or Revenue line, interpreted
// in the canonical unit of that dimension. For Volume and Complete lines a
// unit-less value is ambiguous and rejected. A nested operand is flattened
// first (reported as a Warning), since shifting every child would shift the
// aggregate once per child.
func (a *Algebra) AddScalar(x *Line, v decimal.Decimal) (*Line, error) {
	if x.kind != Price && x.kind != Revenue {
		return nil, fmt.Errorf("cannot add a unit-less value to a %s line: %w", x.kind, ErrAmbiguousDimension)
	}
	if x.IsNested() {
		a.warnf("add", "nested %s line is flattened before adding a scalar; its children are lost", x.kind)
		x = x.Flatten()
	}
	if x.kind == Price {
		return flatPrice(x.p.Shift(v)), nil
	}
	return flatRevenue(x.r.Shift(v)), nil
}

// AddQuantity adds a dimensioned scalar, broadcast over the line's index. The
// quantity's dimension must resolve to the line's kind: energy or power for a
// Volume line, price for a Price line, revenue for a Revenue line. A
// dimensionless quantity defers to AddScalar.
func (a *Algebra) AddQuantity(x *Line, q unit.Quantity) (*Line, error) {
	var other *Line
	switch q.Dim() {
	case unit.Dimensionless:
		return a.AddScalar(x, q.Decimal())
	case unit.Energy:
		other = flatVolume(tseries.Constant(x.idx, q.Decimal()))
	case unit.Power:
		var err error
		other, err = a.Flat(map[Tag]tseries.Series{TagPower: tseries.Constant(x.idx, q.Decimal())})
		if err != nil {
			return nil, err
		}
	case unit.Price:
		other = flatPrice(tseries.Constant(x.idx, q.Decimal()))
	case unit.Revenue:
		other = flatRevenue(tseries.Constant(x.idx, q.Decimal()))
	default:
		return nil, fmt.Errorf("cannot resolve dimension %s: %w", q.Dim(), ErrAmbiguousDimension)
	}
	return a.Add(x, other)
}

// SubQuantity subtracts a dimensioned scalar, broadcast over the line's index.
func (a *Algebra) SubQuantity(x *Line, q unit.Quantity) (*Line, error) {
	return a.AddQuantity(x, q.Neg())
}

// Mul is the kind-changing multiplication: volume × price = revenue. Both
// operands must have distinct, non-Complete kinds, and at most one may be
// nested; the nested operand's shape propagates to the result.
func (a *Algebra) Mul(x, y *Line) (*Line, error) {
	if err := a.checkIndex("multiply", x, y); err != nil {
		return nil, err
	}
	// Order the operands: volume × price.
	v, p := x, y
	if x.kind == Price && y.kind == Volume {
		v, p = y, x
	}
	if v.kind != Volume || p.kind != Price {
		return nil, fmt.Errorf("can only multiply volume with price, not %s with %s: %w", x.kind, y.kind, ErrShape)
	}
	if v.IsNested() && p.IsNested() {
		return nil, fmt.Errorf("cannot multiply two nested lines; flatten one first: %w", ErrShape)
	}
	switch {
	case v.IsNested():
		return a.mapNested(v, func(child *Line) (*Line, error) { return a.Mul(child, p) })
	case p.IsNested():
		return a.mapNested(p, func(child *Line) (*Line, error) { return a.Mul(v, child) })
	default:
		r, err := v.q.Mul(p.p)
		if err != nil {
			return nil, err
		}
		return flatRevenue(r), nil
	}
}

// Div is the kind-changing division: revenue ÷ price = volume and
// revenue ÷ volume = price. Both operands must have distinct, non-Complete
// kinds, and at most one may be nested. For the ratio of two same-kind lines
// use Ratio instead.
func (a *Algebra) Div(x, y *Line) (*Line, error) {
	if err := a.checkIndex("divide", x, y); err != nil {
		return nil, err
	}
	if x.kind == y.kind {
		return nil, fmt.Errorf("dividing two %s lines yields a dimensionless series; use Ratio: %w", x.kind, ErrShape)
	}
	if x.kind != Revenue || (y.kind != Price && y.kind != Volume) {
		return nil, fmt.Errorf("cannot divide %s line by %s line: %w", x.kind, y.kind, ErrShape)
	}
	if x.IsNested() && y.IsNested() {
		return nil, fmt.Errorf("cannot divide two nested lines; flatten one first: %w", ErrShape)
	}
	switch {
	case x.IsNested():
		return a.mapNested(x, func(child *Line) (*Line, error) { return a.Div(child, y) })
	case y.IsNested():
		return a.mapNested(y, func(child *Line) (*Line, error) { return a.Div(x, child) })
	case y.kind == Price: // revenue ÷ price = volume
		q, err := x.r.Div(y.p)
		if err != nil {
			return nil, fmt.Errorf("cannot derive volume: %w", err)
		}
		return flatVolume(q), nil
	default: // revenue ÷ volume = price
		p, err := x.r.Div(y.q)
		if err != nil {
			return nil, fmt.Errorf("cannot derive price: %w", err)
		}
		return flatPrice(p), nil
	}
}

// mapNested rebuilds a nested line by applying fn to every child.
func (a *Algebra) mapNested(l *Line, fn func(*Line) (*Line, error)) (*Line, error) {
	children := make([]Child, len(l.children))
	for i, c := range l.children {
		out, err := fn(c.Line)
		if err != nil {
			return nil, err
		}
		children[i] = Child{Name: c.Name, Line: out}
	}
	return newNested(children[0].Line.kind, children), nil
}

// Ratio divides two flat lines of the same non-Complete kind, yielding a
// dimensionless series. Nested operands must be flattened by the caller; for
// a Complete operand select .Volume, .PriceLine or .RevenueLine first.
func (a *Algebra) Ratio(x, y *Line) (tseries.Series, error) {
	if x.kind != y.kind || x.kind == Complete {
		return tseries.Series{}, fmt.Errorf("ratio needs two lines of one non-complete kind, got %s and %s: %w", x.kind, y.kind, ErrShape)
	}
	if x.IsNested() || y.IsNested() {
		return tseries.Series{}, fmt.Errorf("ratio of nested lines is not defined; flatten first: %w", ErrShape)
	}
	if err := a.checkIndex("divide", x, y); err != nil {
		return tseries.Series{}, err
	}
	switch x.kind {
	case Volume:
		return x.q.Div(y.q)
	case Price:
		return x.p.Div(y.p)
	default:
		return x.r.Div(y.r)
	}
}

// Union combines two flat lines of distinct, non-Complete kinds into a
// Complete line, deriving the third dimension from revenue = price × energy.
func (a *Algebra) Union(x, y *Line) (*Line, error) {
	if x.kind == Complete || y.kind == Complete {
		return nil, fmt.Errorf("cannot union a complete line: %w", ErrShape)
	}
	if x.kind == y.kind {
		return nil, fmt.Errorf("cannot union two %s lines: %w", x.kind, ErrShape)
	}
	if x.IsNested() || y.IsNested() {
		return nil, fmt.Errorf("union of nested lines is not defined; flatten first: %w", ErrShape)
	}
	if err := a.checkIndex("union", x, y); err != nil {
		return nil, err
	}
	data := map[Tag]tseries.Series{}
	for _, l := range []*Line{x, y} {
		switch l.kind {
		case Volume:
			data[TagEnergy] = l.q
		case Price:
			data[TagPrice] = l.p
		case Revenue:
			data[TagRevenue] = l.r
		}
	}
	return a.Flat(data)
}
