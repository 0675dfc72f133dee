package portfolio

import (
	"fmt"

	"github.com/enertrade/portfolio/tseries"
)

// HedgeHow selects the hedge constraint.
type HedgeHow int

const (
	// VolumeHedge keeps the hedged energy equal to the original energy in
	// every product period: the hedge power is the duration-weighted mean
	// power.
	VolumeHedge HedgeHow = iota
	// ValueHedge keeps the hedged cost equal to the original cost in every
	// product period: the hedge power is the (duration × price)-weighted
	// mean power.
	ValueHedge
)

func (h HedgeHow) String() string {
	if h == VolumeHedge {
		return "vol"
	}
	return "val"
}

// HedgeWith replaces a volume profile by the equivalent hedge with standard
// base products of frequency freq, valued at the given prices. Both lines
// must be flat and share one index with daily or shorter periods; freq must
// be one of day, month, quarter or year and longer than the index frequency.
// The result is a Complete line at the original resolution: within each
// product period the power is constant and the price is the duration-weighted
// market price. Partial product periods at either end are trimmed.
func (l *Line) HedgeWith(a *Algebra, price *Line, how HedgeHow, freq tseries.Freq) (*Line, error) {
	if l.kind != Volume || price.kind != Price {
		return nil, fmt.Errorf("hedge needs a volume line and a price line, got %s and %s: %w", l.kind, price.kind, ErrShape)
	}
	if l.IsNested() || price.IsNested() {
		return nil, fmt.Errorf("hedge of nested lines is not defined; flatten first: %w", ErrShape)
	}
	if !l.idx.Equal(price.idx) {
		return nil, fmt.Errorf("volume and price have different indices: %w", tseries.ErrIndex)
	}
	if l.idx.Freq() > tseries.Day {
		return nil, fmt.Errorf("can only hedge daily or shorter periods, got %s: %w", l.idx.Freq(), ErrShape)
	}
	if freq < tseries.Day || freq <= l.idx.Freq() {
		return nil, fmt.Errorf("hedge products must be day or longer and longer than the index frequency, got %s: %w", freq, ErrShape)
	}

	durations := tseries.DurationSeries(l.idx)
	w, err := l.q.Div(durations)
	if err != nil {
		return nil, err
	}

	// The hedge power per product period is a weighted mean of the power:
	// weights are the durations for a volumetric hedge, duration × price for
	// a value hedge. Downsample with those weights, then copy the product
	// value back to the original resolution.
	weights := durations
	if how == ValueHedge {
		if weights, err = durations.Mul(price.p); err != nil {
			return nil, err
		}
	}
	wProduct, err := tseries.ResampleWeighted(w, weights, freq)
	if err != nil {
		return nil, err
	}
	wHedge, err := tseries.ResampleAveragable(wProduct, l.idx.Freq())
	if err != nil {
		return nil, err
	}

	// The product price is the duration-weighted market price.
	pProduct, err := tseries.ResampleAveragable(price.p, freq)
	if err != nil {
		return nil, err
	}
	pHedge, err := tseries.ResampleAveragable(pProduct, l.idx.Freq())
	if err != nil {
		return nil, err
	}

	// Trimming may have shortened the index; rebuild energy on the hedge grid.
	qHedge, err := wHedge.Mul(tseries.DurationSeries(wHedge.Index()))
	if err != nil {
		return nil, err
	}
	return a.Union(flatVolume(qHedge), flatPrice(pHedge))
}
