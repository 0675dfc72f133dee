package portfolio

import (
	"testing"
	"time"

	"github.com/enertrade/portfolio/tseries"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustIdx(t *testing.T, start time.Time, n int, freq tseries.Freq) tseries.Index {
	t.Helper()
	idx, err := tseries.NewIndex(start, n, freq)
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	return idx
}

func mustSer(t *testing.T, idx tseries.Index, ss ...string) tseries.Series {
	t.Helper()
	vals := make([]decimal.Decimal, len(ss))
	for i, s := range ss {
		vals[i] = dec(s)
	}
	out, err := tseries.NewSeries(idx, vals)
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}
	return out
}

// The quarters of 2025 in UTC; 2160, 2184, 2208 and 2208 hours.
func quarters(t *testing.T) tseries.Index {
	t.Helper()
	return mustIdx(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 4, tseries.Quarter)
}

func mustFlat(t *testing.T, a *Algebra, data map[Tag]tseries.Series) *Line {
	t.Helper()
	l, err := a.Flat(data)
	if err != nil {
		t.Fatalf("Flat() error = %v", err)
	}
	return l
}

func mustNested(t *testing.T, a *Algebra, children ...Child) *Line {
	t.Helper()
	l, err := a.Nested(children...)
	if err != nil {
		t.Fatalf("Nested() error = %v", err)
	}
	return l
}

// seriesOf extracts the single series of a flat line by kind, flattening first.
func seriesOf(t *testing.T, l *Line) tseries.Series {
	t.Helper()
	var (
		s   tseries.Series
		err error
	)
	switch l.Kind() {
	case Volume:
		s, err = l.Energy()
	case Price:
		s, err = l.PriceSeries()
	case Revenue:
		s, err = l.RevenueSeries()
	default:
		t.Fatal("seriesOf called on a complete line")
	}
	if err != nil {
		t.Fatalf("extracting series: error = %v", err)
	}
	return s
}

// sameValues fails unless the two series agree within a strict tolerance.
func sameValues(t *testing.T, got, want tseries.Series) {
	t.Helper()
	if !got.Index().Equal(want.Index()) {
		t.Fatalf("index mismatch: got %v, want %v", got.Index(), want.Index())
	}
	if !got.Within(want, dec("0.0000000001")) {
		t.Errorf("values = %v, want %v", got.Values(), want.Values())
	}
}
