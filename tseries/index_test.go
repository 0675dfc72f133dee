package tseries

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustIndex(t *testing.T, start time.Time, n int, freq Freq) Index {
	t.Helper()
	idx, err := NewIndex(start, n, freq)
	if err != nil {
		t.Fatalf("NewIndex(%v, %d, %s) error = %v", start, n, freq, err)
	}
	return idx
}

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}
	return loc
}

func TestNewIndex_Boundaries(t *testing.T) {
	testCases := []struct {
		name    string
		start   time.Time
		freq    Freq
		wantErr bool
	}{
		{"month on the 1st", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Month, false},
		{"month with commercial-day offset", time.Date(2025, 2, 1, 6, 0, 0, 0, time.UTC), Month, false},
		{"month on the 15th", time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), Month, true},
		{"quarter in february", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Quarter, true},
		{"quarter in april", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Quarter, false},
		{"year in july", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Year, true},
		{"hour on the half hour", time.Date(2025, 1, 1, 6, 30, 0, 0, time.UTC), Hour, true},
		{"quarterhour at :45", time.Date(2025, 1, 1, 6, 45, 0, 0, time.UTC), QuarterHour, false},
		{"quarterhour at :50", time.Date(2025, 1, 1, 6, 50, 0, 0, time.UTC), QuarterHour, true},
		{"odd seconds", time.Date(2025, 1, 1, 0, 0, 30, 0, time.UTC), Day, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewIndex(tc.start, 3, tc.freq)
			if gotErr := err != nil; gotErr != tc.wantErr {
				t.Errorf("NewIndex() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrIndex) {
				t.Errorf("error = %v, want ErrIndex", err)
			}
		})
	}

	if _, err := NewIndex(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 0, Day); !errors.Is(err, ErrIndex) {
		t.Errorf("NewIndex() with zero periods: error = %v, want ErrIndex", err)
	}
}

func TestIndex_AtAndEnd(t *testing.T) {
	idx := mustIndex(t, time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC), 4, Quarter)

	wantStarts := []time.Time{
		time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 1, 6, 0, 0, 0, time.UTC),
	}
	for p, want := range wantStarts {
		if got := idx.At(p); !got.Equal(want) {
			t.Errorf("At(%d) = %v, want %v", p, got, want)
		}
	}
	if got, want := idx.End(), time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("End() = %v, want %v", got, want)
	}
}

func TestIndex_Duration(t *testing.T) {
	// The quarters of a non-leap year have 90, 91, 92 and 92 days.
	idx := mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 4, Quarter)
	want := []int64{2160, 2184, 2208, 2208}
	for p, hours := range want {
		if got := idx.Duration(p); !got.Equal(decimal.NewFromInt(hours)) {
			t.Errorf("Duration(%d) = %s, want %d", p, got, hours)
		}
	}
}

func TestIndex_DurationDST(t *testing.T) {
	// 2025-03-30 is the spring-forward day in Europe/Berlin: 23 hours.
	idx := mustIndex(t, time.Date(2025, 3, 29, 0, 0, 0, 0, berlin(t)), 3, Day)
	want := []int64{24, 23, 24}
	for p, hours := range want {
		if got := idx.Duration(p); !got.Equal(decimal.NewFromInt(hours)) {
			t.Errorf("Duration(%d) = %s, want %d", p, got, hours)
		}
	}
}

func TestIndex_Slice(t *testing.T) {
	idx := mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 12, Month)

	sub, off, err := idx.Slice(
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("Slice() error = %v", err)
	}
	if off != 3 || sub.Len() != 3 || sub.Freq() != Month {
		t.Errorf("Slice() = len %d at offset %d, want len 3 at offset 3", sub.Len(), off)
	}

	if _, _, err := idx.Slice(
		time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	); !errors.Is(err, ErrIndex) {
		t.Errorf("Slice() off boundary: error = %v, want ErrIndex", err)
	}
}

func TestIntersect(t *testing.T) {
	a := mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 6, Month)
	b := mustIndex(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 6, Month)

	sub, offA, offB, err := Intersect(a, b)
	if err != nil {
		t.Fatalf("Intersect() error = %v", err)
	}
	if sub.Len() != 3 || offA != 3 || offB != 0 {
		t.Errorf("Intersect() = len %d, offsets %d/%d; want 3, 3/0", sub.Len(), offA, offB)
	}

	c := mustIndex(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 3, Month)
	if _, _, _, err := Intersect(a, c); !errors.Is(err, ErrIndex) {
		t.Errorf("Intersect() without overlap: error = %v, want ErrIndex", err)
	}

	d := mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 6, Day)
	if _, _, _, err := Intersect(a, d); !errors.Is(err, ErrIndex) {
		t.Errorf("Intersect() with different frequency: error = %v, want ErrIndex", err)
	}
}

func TestIndex_Equal(t *testing.T) {
	a := mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 4, Quarter)
	b := mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 4, Quarter)
	if !a.Equal(b) {
		t.Error("Equal() = false for identical indices")
	}
	c := mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 4, Month)
	if a.Equal(c) {
		t.Error("Equal() = true for indices with different frequency")
	}
}
