package tseries

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// The resampling engine converts a series from one regular frequency to
// another, in either direction. How values aggregate or distribute depends on
// their semantic class:
//
//   - summable quantities (energy, revenue) sum when downsampling and are
//     distributed in proportion to sub-period duration when upsampling;
//   - averagable quantities (power, a price without known volume) are
//     duration-weight averaged when downsampling and copied when upsampling;
//   - weighted quantities (a price with known volume) are averaged with the
//     supplied weights when downsampling and copied when upsampling.
//
// Downsampling keeps only full target periods; partial head and tail periods
// are trimmed. Period boundaries align on the start-of-day offset declared by
// the index start, not on calendar midnight.

// onBoundary reports whether t is a period start of frequency f, given the
// start-of-day offset (sodH:sodM).
func onBoundary(t time.Time, f Freq, sodH, sodM int) bool {
	switch f {
	case QuarterHour:
		return t.Minute()%15 == 0
	case Hour:
		return t.Minute() == sodM
	case Day:
		return t.Hour() == sodH && t.Minute() == sodM
	case Month:
		return t.Day() == 1 && t.Hour() == sodH && t.Minute() == sodM
	case Quarter:
		return t.Day() == 1 && (int(t.Month())-1)%3 == 0 && t.Hour() == sodH && t.Minute() == sodM
	case Year:
		return t.Day() == 1 && t.Month() == time.January && t.Hour() == sodH && t.Minute() == sodM
	default:
		return false
	}
}

// downGroups maps a source index onto the coarser frequency f. It returns the
// target index and the fence positions of each group: target period g covers
// source positions fences[g] up to (excluding) fences[g+1].
func downGroups(src Index, f Freq) (Index, []int, error) {
	sodH, sodM := src.start.Hour(), src.start.Minute()

	p0 := -1
	for p := 0; p < src.n; p++ {
		if onBoundary(src.At(p), f, sodH, sodM) {
			p0 = p
			break
		}
	}
	if p0 < 0 {
		return Index{}, nil, fmt.Errorf("index holds no %s boundary: %w", f, ErrIndex)
	}

	fences := []int{p0}
	for cur := p0; cur < src.n; {
		target := step(src.At(cur), f, 1)
		next := -1
		for p := cur + 1; p <= src.n; p++ {
			at := src.At(p)
			if at.Equal(target) {
				next = p
				break
			}
			if at.After(target) {
				return Index{}, nil, fmt.Errorf("%s periods do not align with %s boundaries: %w", src.freq, f, ErrIndex)
			}
		}
		if next < 0 {
			break // partial tail period, trimmed
		}
		fences = append(fences, next)
		cur = next
	}
	if len(fences) < 2 {
		return Index{}, nil, fmt.Errorf("index covers no full %s period: %w", f, ErrIndex)
	}
	return Index{start: src.At(p0), n: len(fences) - 1, freq: f}, fences, nil
}

// upGroups maps a source index onto the finer frequency f. It returns the
// target index and fence positions: source period p maps to target positions
// fences[p] up to (excluding) fences[p+1].
func upGroups(src Index, f Freq) (Index, []int, error) {
	fences := make([]int, src.n+1)
	total := 0
	for p := 0; p < src.n; p++ {
		fences[p] = total
		right := src.Right(p)
		for t := src.At(p); t.Before(right); t = step(t, f, 1) {
			total++
		}
		if !step(src.At(p), f, total-fences[p]).Equal(right) {
			return Index{}, nil, fmt.Errorf("%s periods do not align with %s boundaries: %w", f, src.freq, ErrIndex)
		}
	}
	fences[src.n] = total
	return Index{start: src.start, n: total, freq: f}, fences, nil
}

// ResampleIndex converts an index to another frequency, trimming partial
// periods when downsampling.
func ResampleIndex(idx Index, f Freq) (Index, error) {
	switch {
	case f == idx.freq:
		return idx, nil
	case f < idx.freq:
		out, _, err := upGroups(idx, f)
		return out, err
	default:
		out, _, err := downGroups(idx, f)
		return out, err
	}
}

// ResampleSummable converts a summable series (energy, revenue) to frequency
// f. Downsampling sums the contained values; upsampling distributes each value
// across the sub-periods in proportion to their duration (constant rate).
func ResampleSummable(s Series, f Freq) (Series, error) {
	switch {
	case f == s.idx.freq:
		return s, nil

	case f > s.idx.freq: // downsample: plain sum
		idx, fences, err := downGroups(s.idx, f)
		if err != nil {
			return Series{}, err
		}
		vals := make([]decimal.Decimal, idx.n)
		for g := 0; g < idx.n; g++ {
			var sum decimal.Decimal
			for p := fences[g]; p < fences[g+1]; p++ {
				sum = sum.Add(s.vals[p])
			}
			vals[g] = sum
		}
		return Series{idx: idx, vals: vals}, nil

	default: // upsample: distribute by duration share
		idx, fences, err := upGroups(s.idx, f)
		if err != nil {
			return Series{}, err
		}
		vals := make([]decimal.Decimal, idx.n)
		for p := 0; p < s.idx.n; p++ {
			total := s.idx.Duration(p)
			for j := fences[p]; j < fences[p+1]; j++ {
				vals[j] = s.vals[p].Mul(idx.Duration(j)).Div(total)
			}
		}
		return Series{idx: idx, vals: vals}, nil
	}
}

// ResampleAveragable converts an averagable series (power, or a price without
// associated volume) to frequency f. Downsampling computes the duration-
// weighted average; upsampling copies the value to every sub-period.
func ResampleAveragable(s Series, f Freq) (Series, error) {
	switch {
	case f == s.idx.freq:
		return s, nil
	case f > s.idx.freq:
		return downWeighted(s, DurationSeries(s.idx), f)
	default:
		return upCopy(s, f)
	}
}

// ResampleWeighted converts a series to frequency f using explicit weights,
// e.g. a price series weighted by its associated energy. Downsampling computes
// the weighted average; upsampling copies the value (the only value consistent
// with scale-invariant revenue per energy). The weights must share the index
// of s.
func ResampleWeighted(s, weights Series, f Freq) (Series, error) {
	if !s.idx.Equal(weights.idx) {
		return Series{}, fmt.Errorf("weights have a different index: %w", ErrIndex)
	}
	switch {
	case f == s.idx.freq:
		return s, nil
	case f > s.idx.freq:
		return downWeighted(s, weights, f)
	default:
		return upCopy(s, f)
	}
}

func downWeighted(s, weights Series, f Freq) (Series, error) {
	idx, fences, err := downGroups(s.idx, f)
	if err != nil {
		return Series{}, err
	}
	vals := make([]decimal.Decimal, idx.n)
	for g := 0; g < idx.n; g++ {
		var num, den decimal.Decimal
		for p := fences[g]; p < fences[g+1]; p++ {
			num = num.Add(s.vals[p].Mul(weights.vals[p]))
			den = den.Add(weights.vals[p])
		}
		// All-zero weights leave the average undefined; by the "no volume,
		// no value" convention the period value is zero.
		if den.IsZero() {
			vals[g] = decimal.Decimal{}
		} else {
			vals[g] = num.Div(den)
		}
	}
	return Series{idx: idx, vals: vals}, nil
}

func upCopy(s Series, f Freq) (Series, error) {
	idx, fences, err := upGroups(s.idx, f)
	if err != nil {
		return Series{}, err
	}
	vals := make([]decimal.Decimal, idx.n)
	for p := 0; p < s.idx.n; p++ {
		for j := fences[p]; j < fences[p+1]; j++ {
			vals[j] = s.vals[p]
		}
	}
	return Series{idx: idx, vals: vals}, nil
}
