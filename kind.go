package portfolio

import (
	"fmt"
	"strings"

	"github.com/enertrade/portfolio/unit"
)

// Kind enumerates what dimensional content a portfolio line holds.
type Kind int

const (
	// Volume lines hold an energy series; power is derived by dividing by
	// the period duration.
	Volume Kind = iota
	// Price lines hold a price series.
	Price
	// Revenue lines hold a revenue series.
	Revenue
	// Complete lines hold volume, price and revenue. The three are
	// over-determined: revenue = price × energy holds for every period.
	Complete
)

func (k Kind) String() string {
	switch k {
	case Volume:
		return "volume"
	case Price:
		return "price"
	case Revenue:
		return "revenue"
	case Complete:
		return "complete"
	default:
		panic(fmt.Sprintf("unknown kind %d", int(k)))
	}
}

// Available returns the dimensions a line of this kind can report.
func (k Kind) Available() []unit.Dim {
	switch k {
	case Volume:
		return []unit.Dim{unit.Power, unit.Energy}
	case Price:
		return []unit.Dim{unit.Price}
	case Revenue:
		return []unit.Dim{unit.Revenue}
	default:
		return []unit.Dim{unit.Power, unit.Energy, unit.Price, unit.Revenue}
	}
}

// Summable returns the dimensions that aggregate by summation. A price is
// never summable; it combines by (weighted) averaging.
func (k Kind) Summable() []unit.Dim {
	switch k {
	case Volume:
		return []unit.Dim{unit.Energy}
	case Price:
		return nil
	case Revenue:
		return []unit.Dim{unit.Revenue}
	default:
		return []unit.Dim{unit.Energy, unit.Revenue}
	}
}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "volume", "vol":
		return Volume, nil
	case "price", "pri":
		return Price, nil
	case "revenue", "rev":
		return Revenue, nil
	case "complete", "all":
		return Complete, nil
	default:
		return Volume, fmt.Errorf("unknown kind %q", s)
	}
}
