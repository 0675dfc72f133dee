package portfolio

import "errors"

// The error taxonomy of the core. All of these are caller-input errors raised
// synchronously at the point of violation; none is transient and nothing is
// retried. Callers match them with errors.Is; every returned error wraps
// exactly one of these sentinels (or tseries.ErrIndex for index mismatches).
var (
	// ErrInsufficientData: construction input under-determines the
	// required kind.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInconsistent: over-determined construction input disagrees with
	// itself beyond the configured tolerance.
	ErrInconsistent = errors.New("inconsistent data")

	// ErrAmbiguousDimension: an operand's dimension cannot be resolved for
	// the requested operation.
	ErrAmbiguousDimension = errors.New("ambiguous dimension")

	// ErrShape: an operator was invoked on a kind/shape combination outside
	// its defined domain.
	ErrShape = errors.New("operation not defined for this kind/shape")

	// ErrInvariant: the operation would violate a structural invariant.
	ErrInvariant = errors.New("invariant violation")

	// ErrNoChild: a named child does not exist.
	ErrNoChild = errors.New("no child with that name")
)

// Warning describes a lossy but legal operation: the single silent-flatten
// path of addition between a flat and a nested line. Warnings travel on a
// channel distinct from hard errors, via the sink configured on the Algebra.
type Warning struct {
	Op     string
	Reason string
}

func (w Warning) String() string { return w.Op + ": " + w.Reason }

// WarnFunc receives warnings. A nil sink discards them.
type WarnFunc func(Warning)
