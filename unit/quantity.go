package unit

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrDimension is returned when an operation combines quantities whose
// dimensions admit no result (e.g. adding power to price).
var ErrDimension = errors.New("incompatible dimensions")

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is an immutable numeric value tagged with a dimension. The
// magnitude is always expressed in the canonical unit of that dimension.
type Quantity struct {
	value decimal.Decimal
	dim   Dim
}

// Q builds a quantity from a numeric value, interpreted in the canonical unit
// of the given dimension.
func Q[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T, dim Dim) Quantity {
	return Quantity{value: newDecimal(value), dim: dim}
}

func (q Quantity) Dim() Dim                 { return q.dim }
func (q Quantity) Decimal() decimal.Decimal { return q.value }
func (q Quantity) IsZero() bool             { return q.value.IsZero() }
func (q Quantity) IsNegative() bool         { return q.value.IsNegative() }
func (q Quantity) IsPositive() bool         { return q.value.IsPositive() }
func (q Quantity) Neg() Quantity            { return Quantity{value: q.value.Neg(), dim: q.dim} }
func (q Quantity) String() string           { return q.value.String() }

// Equal reports whether both dimension and magnitude are the same.
func (q Quantity) Equal(o Quantity) bool { return q.dim == o.dim && q.value.Equal(o.value) }

// Scale multiplies the magnitude by a bare factor, keeping the dimension.
func (q Quantity) Scale(f decimal.Decimal) Quantity {
	return Quantity{value: q.value.Mul(f), dim: q.dim}
}

// Add returns q + o. Both operands must have the same dimension.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	if q.dim != o.dim {
		return Quantity{}, fmt.Errorf("cannot add %s to %s: %w", o.dim, q.dim, ErrDimension)
	}
	return Quantity{value: q.value.Add(o.value), dim: q.dim}, nil
}

// Sub returns q - o. Both operands must have the same dimension.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	return q.Add(o.Neg())
}

// Mul returns q × o with dimension derivation: energy × price = revenue, and
// dimensionless factors leave the other dimension unchanged.
func (q Quantity) Mul(o Quantity) (Quantity, error) {
	dim, ok := mulDim(q.dim, o.dim)
	if !ok {
		return Quantity{}, fmt.Errorf("cannot multiply %s by %s: %w", q.dim, o.dim, ErrDimension)
	}
	return Quantity{value: q.value.Mul(o.value), dim: dim}, nil
}

// Div returns q ÷ o with dimension derivation: revenue ÷ price = energy,
// revenue ÷ energy = price, same ÷ same = dimensionless.
func (q Quantity) Div(o Quantity) (Quantity, error) {
	dim, ok := divDim(q.dim, o.dim)
	if !ok {
		return Quantity{}, fmt.Errorf("cannot divide %s by %s: %w", q.dim, o.dim, ErrDimension)
	}
	if o.value.IsZero() {
		return Quantity{}, fmt.Errorf("division of %s by zero %s: %w", q.dim, o.dim, ErrDimension)
	}
	return Quantity{value: q.value.Div(o.value), dim: dim}, nil
}

func mulDim(a, b Dim) (Dim, bool) {
	switch {
	case a == Dimensionless:
		return b, true
	case b == Dimensionless:
		return a, true
	case a == Energy && b == Price, a == Price && b == Energy:
		return Revenue, true
	default:
		return Dimensionless, false
	}
}

func divDim(a, b Dim) (Dim, bool) {
	switch {
	case b == Dimensionless:
		return a, true
	case a == b:
		return Dimensionless, true
	case a == Revenue && b == Price:
		return Energy, true
	case a == Revenue && b == Energy:
		return Price, true
	default:
		return Dimensionless, false
	}
}
