package portfolio

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/enertrade/portfolio/tseries"
)

// PeakFunc reports whether the delivery hour starting at t is a peak hour.
// Implementations must be constant within each hour, so that hourly and
// quarterhourly periods are never split.
type PeakFunc func(t time.Time) bool

// GermanPower is the standard German power peak: workdays from 08:00
// (inclusive) until 20:00 (exclusive).
func GermanPower(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return t.Hour() >= 8 && t.Hour() < 20
}

// NewPeakFunc returns a peak function marking the hours from fromHour
// (inclusive) until toHour (exclusive) on the given weekdays.
func NewPeakFunc(fromHour, toHour int, days ...time.Weekday) (PeakFunc, error) {
	if fromHour < 0 || toHour > 24 || fromHour >= toHour {
		return nil, fmt.Errorf("peak hours must satisfy 0 <= from < to <= 24, got %d and %d: %w", fromHour, toHour, ErrShape)
	}
	var onDay [7]bool
	for _, d := range days {
		onDay[d] = true
	}
	return func(t time.Time) bool {
		return onDay[t.Weekday()] && t.Hour() >= fromHour && t.Hour() < toHour
	}, nil
}

// PeakHours returns, for each period of idx, the peak duration in hours. For
// hourly and quarterhourly periods the whole period is classified by its left
// timestamp; for longer periods the hours within the period are counted one
// by one, so days with a DST transition get their actual peak duration.
func PeakHours(idx tseries.Index, fn PeakFunc) tseries.Series {
	vals := make([]decimal.Decimal, idx.Len())
	for p := 0; p < idx.Len(); p++ {
		if idx.Freq() <= tseries.Hour {
			if fn(idx.At(p)) {
				vals[p] = idx.Duration(p)
			}
			continue
		}
		n := 0
		for t, right := idx.At(p), idx.Right(p); t.Before(right); t = t.Add(time.Hour) {
			if fn(t) {
				n++
			}
		}
		vals[p] = decimal.NewFromInt(int64(n))
	}
	return mustOp(tseries.NewSeries(idx, vals))
}

// PeakSplit splits a flat price line at hourly or shorter resolution into its
// peak and offpeak product prices at the coarser frequency freq (month,
// quarter or year). Each product price is the duration-weighted mean of the
// prices in the matching hours. Partial product periods at either end are
// trimmed.
func (l *Line) PeakSplit(fn PeakFunc, freq tseries.Freq) (peak, offpeak *Line, err error) {
	if l.kind != Price {
		return nil, nil, fmt.Errorf("peak split needs a price line, got %s: %w", l.kind, ErrShape)
	}
	if l.IsNested() {
		return nil, nil, fmt.Errorf("peak split of a nested line is not defined; flatten first: %w", ErrShape)
	}
	if l.idx.Freq() > tseries.Hour {
		return nil, nil, fmt.Errorf("can only split hourly or shorter periods, got %s: %w", l.idx.Freq(), ErrShape)
	}
	if freq < tseries.Month {
		return nil, nil, fmt.Errorf("peak products must be month, quarter or year, got %s: %w", freq, ErrShape)
	}

	peakW := PeakHours(l.idx, fn)
	offW, err := tseries.DurationSeries(l.idx).Sub(peakW)
	if err != nil {
		return nil, nil, err
	}
	pPeak, err := tseries.ResampleWeighted(l.p, peakW, freq)
	if err != nil {
		return nil, nil, err
	}
	pOff, err := tseries.ResampleWeighted(l.p, offW, freq)
	if err != nil {
		return nil, nil, err
	}
	return flatPrice(pPeak), flatPrice(pOff), nil
}

// PriceFromPeakOffpeak recombines peak and offpeak product prices into a
// single price line on idx, selecting the peak price in peak hours and the
// offpeak price otherwise. Both lines must be flat prices on the same index,
// and idx must be an hourly or shorter index covering exactly the product
// periods.
func PriceFromPeakOffpeak(peak, offpeak *Line, idx tseries.Index, fn PeakFunc) (*Line, error) {
	if peak.kind != Price || offpeak.kind != Price {
		return nil, fmt.Errorf("recombination needs price lines, got %s and %s: %w", peak.kind, offpeak.kind, ErrShape)
	}
	if peak.IsNested() || offpeak.IsNested() {
		return nil, fmt.Errorf("recombination of nested lines is not defined; flatten first: %w", ErrShape)
	}
	if !peak.idx.Equal(offpeak.idx) {
		return nil, fmt.Errorf("peak and offpeak have different indices: %w", tseries.ErrIndex)
	}
	if idx.Freq() > tseries.Hour {
		return nil, fmt.Errorf("can only recombine onto hourly or shorter periods, got %s: %w", idx.Freq(), ErrShape)
	}

	peakUp, err := tseries.ResampleAveragable(peak.p, idx.Freq())
	if err != nil {
		return nil, err
	}
	offUp, err := tseries.ResampleAveragable(offpeak.p, idx.Freq())
	if err != nil {
		return nil, err
	}
	if !peakUp.Index().Equal(idx) {
		return nil, fmt.Errorf("index does not cover the product periods: %w", tseries.ErrIndex)
	}

	vals := make([]decimal.Decimal, idx.Len())
	for p := 0; p < idx.Len(); p++ {
		if fn(idx.At(p)) {
			vals[p] = peakUp.At(p)
		} else {
			vals[p] = offUp.At(p)
		}
	}
	s, err := tseries.NewSeries(idx, vals)
	if err != nil {
		return nil, err
	}
	return flatPrice(s), nil
}
