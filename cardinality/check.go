package cardinality

import "fmt"

// ViolationKind classifies a cardinality violation.
type ViolationKind int

const (
	// MinSumExceedsBaseMax means the slice minimums together demand more
	// occurrences than the base element permits. The declaration can never
	// be satisfied.
	MinSumExceedsBaseMax ViolationKind = iota
	// MinSumExceedsBaseMin means the slice minimums together exceed the
	// base minimum but still fit under the base maximum. The declaration
	// is satisfiable and reported as a soft violation.
	MinSumExceedsBaseMin
	// SliceMaxExceedsBaseMax means a single slice permits more occurrences
	// than the base element does.
	SliceMaxExceedsBaseMax
	// SliceTooFew means an instance has fewer occurrences of a slice than
	// its minimum demands.
	SliceTooFew
	// SliceTooMany means an instance has more occurrences of a slice than
	// its maximum permits.
	SliceTooMany
	// TotalTooFew means an instance has fewer occurrences of the base
	// element than its minimum demands.
	TotalTooFew
	// TotalTooMany means an instance has more occurrences of the base
	// element than its maximum permits.
	TotalTooMany
)

// Violation is one failed cardinality check. Hard violations are definite
// defects; soft violations are satisfiable but suspicious declarations.
type Violation struct {
	Kind    ViolationKind
	Hard    bool
	Element string
	Slice   string
	Message string
}

// CheckDeclaration checks a slice set's declared bounds for internal
// consistency. Absent base bounds disable the corresponding comparison.
func CheckDeclaration(s SliceSet) []Violation {
	var out []Violation

	sum := 0
	for _, sl := range s.Slices {
		if sl.Min.IsSet() && !sl.Min.IsUnbounded() {
			sum += sl.Min.Value()
		}
	}

	switch {
	case s.Base.Max.ExceededBy(sum):
		out = append(out, Violation{
			Kind:    MinSumExceedsBaseMax,
			Hard:    true,
			Element: s.Base.ID,
			Message: fmt.Sprintf("slice minimums of %s sum to %d, exceeding the base maximum %s; the constraints can never be satisfied",
				s.Base.ID, sum, s.Base.Max),
		})
	case s.Base.Min.IsSet() && !s.Base.Min.IsUnbounded() && sum > s.Base.Min.Value():
		out = append(out, Violation{
			Kind:    MinSumExceedsBaseMin,
			Element: s.Base.ID,
			Message: fmt.Sprintf("slice minimums of %s sum to %d, exceeding the base minimum %s",
				s.Base.ID, sum, s.Base.Min),
		})
	}

	for _, sl := range s.Slices {
		if !sliceMaxExceeds(sl.Max, s.Base.Max) {
			continue
		}
		out = append(out, Violation{
			Kind:    SliceMaxExceedsBaseMax,
			Hard:    true,
			Element: s.Base.ID,
			Slice:   sl.SliceName,
			Message: fmt.Sprintf("slice %s of %s permits %s occurrences, exceeding the base maximum %s",
				sl.SliceName, s.Base.ID, sl.Max, s.Base.Max),
		})
	}
	return out
}

// sliceMaxExceeds reports whether a slice maximum permits more than the base
// maximum. Absent or unbounded base maxima permit everything.
func sliceMaxExceeds(sliceMax, baseMax Bound) bool {
	if !baseMax.IsSet() || baseMax.IsUnbounded() || !sliceMax.IsSet() {
		return false
	}
	if sliceMax.IsUnbounded() {
		return true
	}
	return sliceMax.Value() > baseMax.Value()
}

// CheckInstance checks observed occurrence counts against a slice set.
// counts holds occurrences per slice name; total is the occurrence count of
// the base element including unsliced occurrences.
func CheckInstance(s SliceSet, counts map[string]int, total int) []Violation {
	var out []Violation

	for _, sl := range s.Slices {
		n := counts[sl.SliceName]
		if sl.Min.Unmet(n) {
			out = append(out, Violation{
				Kind:    SliceTooFew,
				Hard:    true,
				Element: s.Base.ID,
				Slice:   sl.SliceName,
				Message: fmt.Sprintf("slice %s of %s occurs %d times, fewer than the minimum %s",
					sl.SliceName, s.Base.ID, n, sl.Min),
			})
		}
		if sl.Max.ExceededBy(n) {
			out = append(out, Violation{
				Kind:    SliceTooMany,
				Hard:    true,
				Element: s.Base.ID,
				Slice:   sl.SliceName,
				Message: fmt.Sprintf("slice %s of %s occurs %d times, exceeding the maximum %s",
					sl.SliceName, s.Base.ID, n, sl.Max),
			})
		}
	}

	if s.Base.Min.Unmet(total) {
		out = append(out, Violation{
			Kind:    TotalTooFew,
			Hard:    true,
			Element: s.Base.ID,
			Message: fmt.Sprintf("%s occurs %d times, fewer than the minimum %s",
				s.Base.ID, total, s.Base.Min),
		})
	}
	if s.Base.Max.ExceededBy(total) {
		out = append(out, Violation{
			Kind:    TotalTooMany,
			Hard:    true,
			Element: s.Base.ID,
			Message: fmt.Sprintf("%s occurs %d times, exceeding the maximum %s",
				s.Base.ID, total, s.Base.Max),
		})
	}
	return out
}
