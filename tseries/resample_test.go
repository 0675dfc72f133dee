package tseries

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decs(ss ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ss))
	for i, s := range ss {
		out[i] = dec(s)
	}
	return out
}

func mustSeries(t *testing.T, idx Index, ss ...string) Series {
	t.Helper()
	s, err := NewSeries(idx, decs(ss...))
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}
	return s
}

// The quarters of 2025 have 2160, 2184, 2208 and 2208 hours.
func quarters2025(t *testing.T) Index {
	t.Helper()
	return mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 4, Quarter)
}

func TestResampleSummable_Down(t *testing.T) {
	idx := quarters2025(t)
	energy := mustSeries(t, idx, "300", "180", "200", "320")

	got, err := ResampleSummable(energy, Year)
	if err != nil {
		t.Fatalf("ResampleSummable() error = %v", err)
	}
	if got.Len() != 1 || !got.At(0).Equal(dec("1000")) {
		t.Errorf("ResampleSummable() = %v, want [1000]", got.Values())
	}
}

func TestResampleSummable_UpDistributesByDuration(t *testing.T) {
	year := mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1, Year)
	energy := mustSeries(t, year, "8760")

	got, err := ResampleSummable(energy, Quarter)
	if err != nil {
		t.Fatalf("ResampleSummable() error = %v", err)
	}
	// 8760 MWh over the year is a constant 1 MW, so each quarter receives
	// its duration in hours.
	want := mustSeries(t, quarters2025(t), "2160", "2184", "2208", "2208")
	if !got.Equal(want) {
		t.Errorf("ResampleSummable() = %v, want %v", got.Values(), want.Values())
	}
}

func TestResampleSummable_RoundTrip(t *testing.T) {
	idx := quarters2025(t)
	energy := mustSeries(t, idx, "300", "180", "200", "320")

	daily, err := ResampleSummable(energy, Day)
	if err != nil {
		t.Fatalf("ResampleSummable(Day) error = %v", err)
	}
	back, err := ResampleSummable(daily, Quarter)
	if err != nil {
		t.Fatalf("ResampleSummable(Quarter) error = %v", err)
	}
	if !back.Within(energy, dec("0.00001")) {
		t.Errorf("round trip = %v, want %v", back.Values(), energy.Values())
	}
}

func TestResampleAveragable_Down(t *testing.T) {
	idx := quarters2025(t)
	price := mustSeries(t, idx, "37.77", "25.30", "21.30", "30.80")

	got, err := ResampleAveragable(price, Year)
	if err != nil {
		t.Fatalf("ResampleAveragable() error = %v", err)
	}
	// (37.77*2160 + 25.30*2184 + 21.30*2208 + 30.80*2208) / 8760
	want := dec("251875.2").Div(dec("8760"))
	if !within(got.At(0), want, dec("0.0000001")) {
		t.Errorf("ResampleAveragable() = %s, want %s", got.At(0), want)
	}
}

func TestResampleAveragable_UpCopies(t *testing.T) {
	idx := mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 2, Month)
	power := mustSeries(t, idx, "50", "60")

	got, err := ResampleAveragable(power, Day)
	if err != nil {
		t.Fatalf("ResampleAveragable() error = %v", err)
	}
	if got.Len() != 59 {
		t.Fatalf("ResampleAveragable() length = %d, want 59", got.Len())
	}
	if !got.At(0).Equal(dec("50")) || !got.At(30).Equal(dec("50")) || !got.At(31).Equal(dec("60")) {
		t.Errorf("ResampleAveragable() = %v, want the month value copied to each day", got.Values())
	}
}

func TestResampleWeighted_DivergesFromAveragable(t *testing.T) {
	idx := quarters2025(t)
	price := mustSeries(t, idx, "37.77", "25.30", "21.30", "30.80")
	energy := mustSeries(t, idx, "300", "180", "200", "320")

	weighted, err := ResampleWeighted(price, energy, Year)
	if err != nil {
		t.Fatalf("ResampleWeighted() error = %v", err)
	}
	// (37.77*300 + 25.30*180 + 21.30*200 + 30.80*320) / 1000
	if want := dec("30.001"); !weighted.At(0).Equal(want) {
		t.Errorf("ResampleWeighted() = %s, want %s", weighted.At(0), want)
	}

	averaged, err := ResampleAveragable(price, Year)
	if err != nil {
		t.Fatalf("ResampleAveragable() error = %v", err)
	}
	// The duration-weighted average is about 28.75, distinctly below the
	// energy-weighted one.
	if weighted.At(0).Sub(averaged.At(0)).LessThan(dec("1")) {
		t.Errorf("weighted %s and duration-weighted %s should diverge", weighted.At(0), averaged.At(0))
	}
}

func TestResampleWeighted_Errors(t *testing.T) {
	idx := quarters2025(t)
	price := mustSeries(t, idx, "37.77", "25.30", "21.30", "30.80")

	other := mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 4, Month)
	weights := Constant(other, dec("1"))
	if _, err := ResampleWeighted(price, weights, Year); !errors.Is(err, ErrIndex) {
		t.Errorf("ResampleWeighted() with foreign weights: error = %v, want ErrIndex", err)
	}
}

func TestResampleWeighted_ZeroWeights(t *testing.T) {
	idx := quarters2025(t)
	price := mustSeries(t, idx, "37.77", "25.30", "21.30", "30.80")
	weights := Zero(idx)

	got, err := ResampleWeighted(price, weights, Year)
	if err != nil {
		t.Fatalf("ResampleWeighted() error = %v", err)
	}
	if !got.At(0).IsZero() {
		t.Errorf("ResampleWeighted() with zero weights = %s, want 0", got.At(0))
	}
}

func TestResample_KeepsStartOfDayOffset(t *testing.T) {
	// A commercial day running 06:00 to 06:00.
	idx := mustIndex(t, time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC), 48, Hour)
	energy := Constant(idx, dec("2"))

	got, err := ResampleSummable(energy, Day)
	if err != nil {
		t.Fatalf("ResampleSummable() error = %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("ResampleSummable() length = %d, want 2", got.Len())
	}
	if h := got.Index().Start().Hour(); h != 6 {
		t.Errorf("resampled index starts at hour %d, want 6", h)
	}
	if !got.At(0).Equal(dec("48")) || !got.At(1).Equal(dec("48")) {
		t.Errorf("ResampleSummable() = %v, want [48 48]", got.Values())
	}
}

func TestResample_TrimsPartialPeriods(t *testing.T) {
	// Feb through Dec: the leading two months precede the first full
	// quarter and are trimmed.
	idx := mustIndex(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 11, Month)
	energy := Constant(idx, dec("10"))

	got, err := ResampleSummable(energy, Quarter)
	if err != nil {
		t.Fatalf("ResampleSummable() error = %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("ResampleSummable() length = %d, want 3", got.Len())
	}
	if want := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC); !got.Index().Start().Equal(want) {
		t.Errorf("resampled index starts %v, want %v", got.Index().Start(), want)
	}
	for p := 0; p < 3; p++ {
		if !got.At(p).Equal(dec("30")) {
			t.Errorf("At(%d) = %s, want 30", p, got.At(p))
		}
	}
}

func TestResample_NoFullPeriod(t *testing.T) {
	idx := mustIndex(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 5, Day)
	energy := Constant(idx, dec("1"))

	if _, err := ResampleSummable(energy, Month); !errors.Is(err, ErrIndex) {
		t.Errorf("ResampleSummable() on a partial month: error = %v, want ErrIndex", err)
	}
}

func TestResample_DSTDay(t *testing.T) {
	// Hourly across the 23-hour spring-forward day in Europe/Berlin.
	idx := mustIndex(t, time.Date(2025, 3, 30, 0, 0, 0, 0, berlin(t)), 23, Hour)
	energy := Constant(idx, dec("1"))

	got, err := ResampleSummable(energy, Day)
	if err != nil {
		t.Fatalf("ResampleSummable() error = %v", err)
	}
	if got.Len() != 1 || !got.At(0).Equal(dec("23")) {
		t.Errorf("ResampleSummable() = %v, want [23]", got.Values())
	}
}
