package tseries

import (
	"fmt"
	"strings"
)

// Freq is a regular delivery-period frequency. The constants are ordered from
// the shortest to the longest period, so frequencies compare with < and >.
type Freq int

const (
	QuarterHour Freq = iota
	Hour
	Day
	Month
	Quarter
	Year
)

func (f Freq) String() string {
	switch f {
	case QuarterHour:
		return "quarterhour"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	case Year:
		return "year"
	default:
		panic(fmt.Sprintf("unknown frequency %d", int(f)))
	}
}

// ParseFreq parses a frequency name.
func ParseFreq(s string) (Freq, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quarterhour", "15min":
		return QuarterHour, nil
	case "hour", "hourly":
		return Hour, nil
	case "day", "daily":
		return Day, nil
	case "month", "monthly":
		return Month, nil
	case "quarter", "quarterly":
		return Quarter, nil
	case "year", "yearly":
		return Year, nil
	default:
		return QuarterHour, fmt.Errorf("unknown frequency %q", s)
	}
}

// monthStep returns the calendar-month step of a month-based frequency, or 0
// for the fixed-duration and day frequencies.
func (f Freq) monthStep() int {
	switch f {
	case Month:
		return 1
	case Quarter:
		return 3
	case Year:
		return 12
	default:
		return 0
	}
}
