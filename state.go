package portfolio

import (
	"fmt"
	"time"

	"github.com/enertrade/portfolio/tseries"
	"github.com/shopspring/decimal"
)

// State holds the timeseries of an energy portfolio at a specific moment:
// the offtake volume (negative by convention: volume flows out of the
// portfolio), the market price of the still-unsourced volume, and what has
// already been sourced. Everything else (unsourced position, net position,
// total cost) is derived, not stored.
//
// A State is an immutable value; every mutating-looking operation returns a
// new State.
type State struct {
	alg            *Algebra
	offtake        *Line // Volume
	unsourcedPrice *Line // Price
	sourced        *Line // Complete
}

// NewState composes a portfolio state from its three underlying lines. The
// lines must share one index. A nil sourced line means no volume has been
// sourced yet and is treated as an all-zero Complete line.
func (a *Algebra) NewState(offtake, unsourcedPrice, sourced *Line) (*State, error) {
	if offtake.kind != Volume {
		return nil, fmt.Errorf("offtake must be a volume line, got %s: %w", offtake.kind, ErrShape)
	}
	if unsourcedPrice.kind != Price {
		return nil, fmt.Errorf("unsourced price must be a price line, got %s: %w", unsourcedPrice.kind, ErrShape)
	}
	if sourced == nil {
		zero := tseries.Zero(offtake.idx)
		sourced = flatComplete(zero, zero)
	}
	if sourced.kind != Complete {
		return nil, fmt.Errorf("sourced must be a complete line, got %s: %w", sourced.kind, ErrShape)
	}
	if !unsourcedPrice.idx.Equal(offtake.idx) || !sourced.idx.Equal(offtake.idx) {
		return nil, fmt.Errorf("offtake, unsourced price and sourced must share one index: %w", ErrInvariant)
	}
	return &State{alg: a, offtake: offtake, unsourcedPrice: unsourcedPrice, sourced: sourced}, nil
}

func (s *State) Index() tseries.Index  { return s.offtake.idx }
func (s *State) Offtake() *Line        { return s.offtake }
func (s *State) UnsourcedPrice() *Line { return s.unsourcedPrice }
func (s *State) Sourced() *Line        { return s.sourced }

// Unsourced returns the volume still to be procured until delivery, priced at
// the unsourced price: volume = −(offtake + sourced volume), revenue = price
// × volume. The volume is negative where the portfolio is over-sourced.
func (s *State) Unsourced() (*Line, error) {
	sourcedVol, err := s.sourced.Volume()
	if err != nil {
		return nil, err
	}
	total, err := s.alg.Add(s.offtake.Flatten(), sourcedVol)
	if err != nil {
		return nil, err
	}
	return s.alg.Union(total.Neg(), s.unsourcedPrice.Flatten())
}

// NetPosition is the unsourced position with volume and revenue sign flipped
// (the traders' view: negative when short, positive when long).
func (s *State) NetPosition() (*Line, error) {
	unsourced, err := s.Unsourced()
	if err != nil {
		return nil, err
	}
	return unsourced.Neg(), nil
}

// PnlCost is the total expected procurement cost: a nested Complete line with
// the children "sourced" and "unsourced", in that order. Its aggregate volume
// equals −offtake volume for every period.
func (s *State) PnlCost() (*Line, error) {
	unsourced, err := s.Unsourced()
	if err != nil {
		return nil, err
	}
	return s.alg.Nested(
		Child{Name: "sourced", Line: s.sourced},
		Child{Name: "unsourced", Line: unsourced},
	)
}

// SourcedFraction is the dimensionless share of the offtake already sourced,
// per period: −sourced volume ÷ offtake volume.
func (s *State) SourcedFraction() (tseries.Series, error) {
	sourcedVol, err := s.sourced.Volume()
	if err != nil {
		return tseries.Series{}, err
	}
	frac, err := s.alg.Ratio(sourcedVol.Flatten(), s.offtake.Flatten())
	if err != nil {
		return tseries.Series{}, err
	}
	return frac.Neg(), nil
}

// UnsourcedFraction is 1 − SourcedFraction, so both always sum to one.
func (s *State) UnsourcedFraction() (tseries.Series, error) {
	frac, err := s.SourcedFraction()
	if err != nil {
		return tseries.Series{}, err
	}
	one := tseries.Constant(frac.Index(), decimal.NewFromInt(1))
	return one.Sub(frac)
}

// Setters, returning new instances.

// SetOfftake replaces the offtake volume.
func (s *State) SetOfftake(offtake *Line) (*State, error) {
	return s.alg.NewState(offtake, s.unsourcedPrice, s.sourced)
}

// SetUnsourcedPrice replaces the unsourced price.
func (s *State) SetUnsourcedPrice(price *Line) (*State, error) {
	return s.alg.NewState(s.offtake, price, s.sourced)
}

// SetSourced replaces the sourced line.
func (s *State) SetSourced(sourced *Line) (*State, error) {
	return s.alg.NewState(s.offtake, s.unsourcedPrice, sourced)
}

// AddSourced adds a procurement to the sourced line.
func (s *State) AddSourced(line *Line) (*State, error) {
	sourced, err := s.alg.Add(s.sourced, line)
	if err != nil {
		return nil, err
	}
	return s.SetSourced(sourced)
}

// Arithmetic between states applies the corresponding line rule independently
// to each of the three underlying lines.

// Add returns the componentwise sum of two states. The sourced components
// inherit the flatten-on-shape-mismatch behavior of line addition.
func (s *State) Add(o *State) (*State, error) {
	offtake, err := s.alg.Add(s.offtake, o.offtake)
	if err != nil {
		return nil, err
	}
	price, err := s.alg.Add(s.unsourcedPrice, o.unsourcedPrice)
	if err != nil {
		return nil, err
	}
	sourced, err := s.alg.Add(s.sourced, o.sourced)
	if err != nil {
		return nil, err
	}
	return s.alg.NewState(offtake, price, sourced)
}

// Sub returns the componentwise difference of two states.
func (s *State) Sub(o *State) (*State, error) {
	return s.Add(o.Neg())
}

// Scale multiplies each of the three underlying lines by a bare factor.
func (s *State) Scale(f decimal.Decimal) *State {
	out, err := s.alg.NewState(s.offtake.Scale(f), s.unsourcedPrice.Scale(f), s.sourced.Scale(f))
	if err != nil {
		panic(fmt.Sprintf("scaling broke state invariants: %v", err))
	}
	return out
}

// Neg is scaling by -1.
func (s *State) Neg() *State { return s.Scale(decimal.NewFromInt(-1)) }

// AsFreq resamples the state to another regular frequency. The unsourced
// price is resampled through the unsourced Complete line, so that it stays
// volume-weighted; offtake and sourced resample by their own kinds.
func (s *State) AsFreq(f tseries.Freq) (*State, error) {
	unsourced, err := s.Unsourced()
	if err != nil {
		return nil, err
	}
	unsourced, err = unsourced.AsFreq(f)
	if err != nil {
		return nil, err
	}
	price, err := unsourced.PriceLine()
	if err != nil {
		return nil, err
	}
	offtake, err := s.offtake.AsFreq(f)
	if err != nil {
		return nil, err
	}
	sourced, err := s.sourced.AsFreq(f)
	if err != nil {
		return nil, err
	}
	return s.alg.NewState(offtake, price, sourced)
}

// Slice returns the sub-state covering [from, to) on period boundaries.
func (s *State) Slice(from, to time.Time) (*State, error) {
	offtake, err := s.offtake.Slice(from, to)
	if err != nil {
		return nil, err
	}
	price, err := s.unsourcedPrice.Slice(from, to)
	if err != nil {
		return nil, err
	}
	sourced, err := s.sourced.Slice(from, to)
	if err != nil {
		return nil, err
	}
	return s.alg.NewState(offtake, price, sourced)
}

// Hedging views.

// HedgeOfUnsourced returns the hedge of the unsourced volume at the unsourced
// prices, using standard products of frequency freq.
func (s *State) HedgeOfUnsourced(how HedgeHow, freq tseries.Freq) (*Line, error) {
	unsourced, err := s.Unsourced()
	if err != nil {
		return nil, err
	}
	vol, err := unsourced.Volume()
	if err != nil {
		return nil, err
	}
	return vol.HedgeWith(s.alg, s.unsourcedPrice.Flatten(), how, freq)
}

// SourceUnsourced simulates the state after the unsourced volume is hedged
// and sourced at market prices; the result is fully hedged at time scales of
// freq and longer.
func (s *State) SourceUnsourced(how HedgeHow, freq tseries.Freq) (*State, error) {
	hedge, err := s.HedgeOfUnsourced(how, freq)
	if err != nil {
		return nil, err
	}
	return s.AddSourced(hedge)
}

// MtMOfSourced is the mark-to-market value of the sourced volume: sourced
// volume × (unsourced price − sourced price).
func (s *State) MtMOfSourced() (*Line, error) {
	vol, err := s.sourced.Volume()
	if err != nil {
		return nil, err
	}
	sourcedPrice, err := s.sourced.PriceLine()
	if err != nil {
		return nil, err
	}
	diff, err := s.alg.Sub(s.unsourcedPrice.Flatten(), sourcedPrice)
	if err != nil {
		return nil, err
	}
	return s.alg.Mul(vol, diff)
}
