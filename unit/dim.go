package unit

import (
	"fmt"
	"strings"
)

// Dim identifies the physical/financial dimension of a quantity.
type Dim int

const (
	Dimensionless Dim = iota
	Power
	Energy
	Price
	Revenue
)

// nDims is the number of defined dimensions.
const nDims = 5

func (d Dim) String() string {
	switch d {
	case Dimensionless:
		return "dimensionless"
	case Power:
		return "power"
	case Energy:
		return "energy"
	case Price:
		return "price"
	case Revenue:
		return "revenue"
	default:
		panic(fmt.Sprintf("unknown dimension %d", int(d)))
	}
}

// ParseDim parses a dimension name as used in registry config files.
func ParseDim(s string) (Dim, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dimensionless", "nodim", "":
		return Dimensionless, nil
	case "power":
		return Power, nil
	case "energy":
		return Energy, nil
	case "price":
		return Price, nil
	case "revenue":
		return Revenue, nil
	default:
		return Dimensionless, fmt.Errorf("unknown dimension %q", s)
	}
}
