package portfolio

import (
	"fmt"

	"github.com/enertrade/portfolio/tseries"
)

// Concat joins two portfolio lines whose spans are adjacent: y must start
// where x ends, with the same frequency, location and kind. Two flat lines
// join their series; two nested lines must have the same child names and join
// child by child. Mixed shapes are not defined.
func Concat(x, y *Line) (*Line, error) {
	if x.kind != y.kind {
		return nil, fmt.Errorf("cannot concat %s line with %s line: %w", x.kind, y.kind, ErrShape)
	}
	if x.IsFlat() != y.IsFlat() {
		return nil, fmt.Errorf("cannot concat a flat line with a nested line: %w", ErrShape)
	}

	if x.IsNested() {
		if len(x.children) != len(y.children) {
			return nil, fmt.Errorf("nested lines have different children: %w", ErrShape)
		}
		children := make([]Child, len(x.children))
		for i, cx := range x.children {
			cy, err := y.Child(cx.Name)
			if err != nil {
				return nil, fmt.Errorf("nested lines have different children: %w", ErrShape)
			}
			joined, err := Concat(cx.Line, cy)
			if err != nil {
				return nil, err
			}
			children[i] = Child{Name: cx.Name, Line: joined}
		}
		return newNested(x.kind, children), nil
	}

	switch x.kind {
	case Volume:
		q, err := tseries.Concat(x.q, y.q)
		if err != nil {
			return nil, err
		}
		return flatVolume(q), nil
	case Price:
		p, err := tseries.Concat(x.p, y.p)
		if err != nil {
			return nil, err
		}
		return flatPrice(p), nil
	case Revenue:
		r, err := tseries.Concat(x.r, y.r)
		if err != nil {
			return nil, err
		}
		return flatRevenue(r), nil
	default:
		q, err := tseries.Concat(x.q, y.q)
		if err != nil {
			return nil, err
		}
		r, err := tseries.Concat(x.r, y.r)
		if err != nil {
			return nil, err
		}
		return flatComplete(q, r), nil
	}
}
