// Package cardinality computes and checks base and slice occurrence bounds
// declared in StructureDefinitions, and checks instance documents against
// them. There is exactly one implementation of these rules; declaration and
// instance checking share the same bound arithmetic.
package cardinality

import (
	"fmt"
	"strconv"
)

// Bound is a declared occurrence bound.
//
// Three states are distinguished and never conflated:
//   - absent: the schema declares no bound, which disables the check
//     entirely (it does not default to 0 or unbounded)
//   - unbounded: declared "*", a distinguished value, never a large literal
//   - a finite non-negative count
type Bound struct {
	set       bool
	unbounded bool
	n         int
}

// Absent returns the bound of an element that declares none.
func Absent() Bound {
	return Bound{}
}

// Unbounded returns the distinguished "*" bound.
func Unbounded() Bound {
	return Bound{set: true, unbounded: true}
}

// Of returns a finite bound.
func Of(n int) Bound {
	return Bound{set: true, n: n}
}

// Parse converts a declared bound value: "" is absent, "*" is unbounded,
// anything else must be a non-negative integer.
func Parse(s string) (Bound, error) {
	switch s {
	case "":
		return Absent(), nil
	case "*":
		return Unbounded(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Bound{}, fmt.Errorf("invalid cardinality bound %q", s)
	}
	return Of(n), nil
}

// IsSet returns true unless the bound is absent.
func (b Bound) IsSet() bool {
	return b.set
}

// IsUnbounded returns true for the distinguished "*" value.
func (b Bound) IsUnbounded() bool {
	return b.set && b.unbounded
}

// Value returns the finite count. Only meaningful when IsSet and not
// IsUnbounded.
func (b Bound) Value() int {
	return b.n
}

// ExceededBy reports whether count exceeds this bound read as a maximum.
// Absent and unbounded maxima are never exceeded.
func (b Bound) ExceededBy(count int) bool {
	return b.set && !b.unbounded && count > b.n
}

// Unmet reports whether count falls short of this bound read as a minimum.
// An absent minimum is never unmet.
func (b Bound) Unmet(count int) bool {
	return b.set && !b.unbounded && count < b.n
}

// String renders the bound for messages.
func (b Bound) String() string {
	if !b.set {
		return "(absent)"
	}
	if b.unbounded {
		return "*"
	}
	return strconv.Itoa(b.n)
}
