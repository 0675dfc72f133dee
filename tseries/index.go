package tseries

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrIndex is returned when an instant or a second index does not fit the
// regular, left-bound, gapless grid of an Index.
var ErrIndex = errors.New("index mismatch")

// Index is a regular, gapless, left-bound sequence of delivery-period start
// instants with a single frequency. The location is carried by the start
// instant. For day-or-longer frequencies the clock time of the start instant
// is the start-of-day offset (the commercial day); for shorter frequencies the
// clock time of the start instant declares where the commercial day begins.
//
// An Index is an immutable value; all methods return new values.
type Index struct {
	start time.Time
	n     int
	freq  Freq
}

// NewIndex builds an index of n delivery periods of the given frequency,
// starting (left-bound) at start. The start instant must lie on a period
// boundary of the frequency.
func NewIndex(start time.Time, n int, freq Freq) (Index, error) {
	if n < 1 {
		return Index{}, fmt.Errorf("index must have at least one period, got %d: %w", n, ErrIndex)
	}
	if start.Second() != 0 || start.Nanosecond() != 0 {
		return Index{}, fmt.Errorf("start %s not on a whole minute: %w", start, ErrIndex)
	}
	switch freq {
	case QuarterHour:
		if start.Minute()%15 != 0 {
			return Index{}, fmt.Errorf("start %s not on a quarterhour boundary: %w", start, ErrIndex)
		}
	case Hour, Day:
		if start.Minute() != 0 {
			return Index{}, fmt.Errorf("start %s not on an %s boundary: %w", start, freq, ErrIndex)
		}
	case Month, Quarter, Year:
		if start.Minute() != 0 || start.Day() != 1 {
			return Index{}, fmt.Errorf("start %s not on a %s boundary: %w", start, freq, ErrIndex)
		}
		if freq >= Quarter && (int(start.Month())-1)%3 != 0 {
			return Index{}, fmt.Errorf("start %s not on a quarter boundary: %w", start, ErrIndex)
		}
		if freq == Year && start.Month() != time.January {
			return Index{}, fmt.Errorf("start %s not on a year boundary: %w", start, ErrIndex)
		}
	default:
		return Index{}, fmt.Errorf("unknown frequency %d: %w", int(freq), ErrIndex)
	}
	return Index{start: start, n: n, freq: freq}, nil
}

func (i Index) Len() int                 { return i.n }
func (i Index) Freq() Freq               { return i.freq }
func (i Index) Start() time.Time         { return i.start }
func (i Index) Location() *time.Location { return i.start.Location() }

// At returns the left-bound start instant of period p.
func (i Index) At(p int) time.Time { return step(i.start, i.freq, p) }

// Right returns the (exclusive) end instant of period p.
func (i Index) Right(p int) time.Time { return i.At(p + 1) }

// End returns the (exclusive) end instant of the whole index.
func (i Index) End() time.Time { return i.At(i.n) }

// step advances a period-start instant by k periods of frequency f.
// Month-based and day frequencies step by calendar arithmetic so that the
// clock time (start-of-day offset) is preserved across DST transitions;
// sub-day frequencies step by absolute duration.
func step(t time.Time, f Freq, k int) time.Time {
	switch f {
	case QuarterHour:
		return t.Add(time.Duration(k) * 15 * time.Minute)
	case Hour:
		return t.Add(time.Duration(k) * time.Hour)
	case Day:
		return t.AddDate(0, 0, k)
	default:
		return t.AddDate(0, k*f.monthStep(), 0)
	}
}

// Duration returns the duration of period p, in hours. DST transitions make
// days of 23 or 25 hours; the value is always exact.
func (i Index) Duration(p int) decimal.Decimal {
	mins := int64(i.Right(p).Sub(i.At(p)) / time.Minute)
	return decimal.NewFromInt(mins).Div(decimal.NewFromInt(60))
}

// Durations returns the per-period durations in hours.
func (i Index) Durations() []decimal.Decimal {
	ds := make([]decimal.Decimal, i.n)
	for p := 0; p < i.n; p++ {
		ds[p] = i.Duration(p)
	}
	return ds
}

// Equal reports whether two indices describe the same grid: same start
// instant and location, same length and frequency.
func (i Index) Equal(o Index) bool {
	return i.n == o.n && i.freq == o.freq &&
		i.start.Equal(o.start) &&
		i.Location().String() == o.Location().String()
}

// Pos returns the position of the period starting at t, or an error if t is
// not a period start of this index.
func (i Index) Pos(t time.Time) (int, error) {
	for p := 0; p < i.n; p++ {
		at := i.At(p)
		if at.Equal(t) {
			return p, nil
		}
		if at.After(t) {
			break
		}
	}
	return 0, fmt.Errorf("instant %s is not a period start: %w", t, ErrIndex)
}

// Slice returns the sub-index covering [from, to). Both instants must lie on
// period boundaries inside the index. The returned offset is the position of
// from in the original index.
func (i Index) Slice(from, to time.Time) (Index, int, error) {
	p0, err := i.Pos(from)
	if err != nil {
		return Index{}, 0, err
	}
	var p1 int
	if to.Equal(i.End()) {
		p1 = i.n
	} else if p1, err = i.Pos(to); err != nil {
		return Index{}, 0, err
	}
	if p1 <= p0 {
		return Index{}, 0, fmt.Errorf("empty slice [%s, %s): %w", from, to, ErrIndex)
	}
	return Index{start: i.At(p0), n: p1 - p0, freq: i.freq}, p0, nil
}

// Intersect returns the largest common sub-grid of two indices with the same
// frequency and location, with the offsets of that sub-grid in each index.
func Intersect(a, b Index) (Index, int, int, error) {
	if a.freq != b.freq {
		return Index{}, 0, 0, fmt.Errorf("cannot intersect %s index with %s index: %w", a.freq, b.freq, ErrIndex)
	}
	if a.Location().String() != b.Location().String() {
		return Index{}, 0, 0, fmt.Errorf("cannot intersect indices in different locations: %w", ErrIndex)
	}
	from := a.start
	if b.start.After(from) {
		from = b.start
	}
	to := a.End()
	if b.End().Before(to) {
		to = b.End()
	}
	if !to.After(from) {
		return Index{}, 0, 0, fmt.Errorf("indices do not overlap: %w", ErrIndex)
	}
	sub, offA, err := a.Slice(from, to)
	if err != nil {
		return Index{}, 0, 0, err
	}
	offB, err := b.Pos(from)
	if err != nil {
		return Index{}, 0, 0, err
	}
	return sub, offA, offB, nil
}
