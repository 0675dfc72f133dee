package tseries

import "testing"

func TestFreq_StringParse(t *testing.T) {
	for _, f := range []Freq{QuarterHour, Hour, Day, Month, Quarter, Year} {
		got, err := ParseFreq(f.String())
		if err != nil || got != f {
			t.Errorf("ParseFreq(%q) = %v, %v; want %v", f.String(), got, err, f)
		}
	}
	if _, err := ParseFreq("week"); err == nil {
		t.Error("ParseFreq(week): error = nil, want error")
	}
}

func TestFreq_Order(t *testing.T) {
	order := []Freq{QuarterHour, Hour, Day, Month, Quarter, Year}
	for i := 1; i < len(order); i++ {
		if !(order[i-1] < order[i]) {
			t.Errorf("%s should be finer than %s", order[i-1], order[i])
		}
	}
}
