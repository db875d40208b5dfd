package capability

import (
	"errors"
	"fmt"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/cache"
)

// Outcome classifies the result of a capability resolution.
// Not-found and not-satisfied are distinct and never co-occur: a type the
// catalog does not know is not-found, a known type failing every candidate
// contract is not-satisfied.
type Outcome int

const (
	// OutcomeSatisfied means the type satisfies a candidate contract.
	OutcomeSatisfied Outcome = iota
	// OutcomeNotFound means the type does not exist in the catalog.
	OutcomeNotFound
	// OutcomeNotSatisfied means the type exists but satisfies none of
	// the candidate contracts, or its hierarchy failed to load.
	OutcomeNotSatisfied
)

// Resolution is the result of resolving one implementation type.
type Resolution struct {
	Outcome  Outcome
	TypeName string
	Version  dsflint.APIVersion
	Class    ElementClass

	// Contract is set when Outcome is OutcomeSatisfied: the first
	// candidate in precedence order the type is assignable to.
	Contract Contract
}

// Message renders a user-facing description of the resolution.
func (r Resolution) Message() string {
	switch r.Outcome {
	case OutcomeSatisfied:
		return fmt.Sprintf("implementation type %s satisfies contract %s for kind %s under API version %s",
			r.TypeName, r.Contract, r.Class, r.Version)
	case OutcomeNotFound:
		return fmt.Sprintf("implementation type %s not found", r.TypeName)
	default:
		return fmt.Sprintf("implementation type %s does not satisfy a required contract (%s) for kind %s under API version %s",
			r.TypeName, joinContracts(Candidates(r.Version, r.Class)), r.Class, r.Version)
	}
}

// loadResult is a memoized catalog lookup.
type loadResult struct {
	t   *Type
	err error
}

// Resolver decides which capability contract a named implementation type
// satisfies. Lookups go through a project-scoped cache so each type is
// loaded at most once per run.
type Resolver struct {
	catalog Catalog
	types   *cache.Store[string, loadResult]
}

// NewResolver creates a capability resolver over the given catalog.
func NewResolver(catalog Catalog, cacheSize int) *Resolver {
	return &Resolver{
		catalog: catalog,
		types:   cache.New[string, loadResult](cacheSize),
	}
}

// load returns the cached catalog entry for a type name.
func (r *Resolver) load(name string) (*Type, error) {
	res := r.types.GetOrCompute(name, func() loadResult {
		t, err := r.catalog.Lookup(name)
		return loadResult{t: t, err: err}
	})
	return res.t, res.err
}

// Resolve decides which contract the type satisfies for the given element
// class and API version. Candidates are tried in precedence order; the
// first satisfied contract wins deterministically. Load failures on the
// type's hierarchy are swallowed and reported as not-satisfied; they never
// abort the run.
func (r *Resolver) Resolve(typeName string, version dsflint.APIVersion, class ElementClass) Resolution {
	res := Resolution{
		Outcome:  OutcomeNotSatisfied,
		TypeName: typeName,
		Version:  version,
		Class:    class,
	}

	subject, err := r.load(typeName)
	if err != nil {
		if errors.Is(err, ErrTypeNotFound) {
			res.Outcome = OutcomeNotFound
		}
		return res
	}

	for _, candidate := range Candidates(version, class) {
		if r.assignableTo(subject, string(candidate)) {
			res.Outcome = OutcomeSatisfied
			res.Contract = candidate
			return res
		}
	}
	return res
}

// DoesNotSatisfy reports whether the type fails to satisfy any candidate
// contract, for any reason.
func (r *Resolver) DoesNotSatisfy(typeName string, version dsflint.APIVersion, class ElementClass) bool {
	return r.Resolve(typeName, version, class).Outcome != OutcomeSatisfied
}

// assignableTo walks the subject's supertype hierarchy through the cached
// catalog. A supertype that fails to load makes this branch unsatisfiable
// but is otherwise ignored.
func (r *Resolver) assignableTo(subject *Type, contract string) bool {
	if subject.Name == contract {
		return true
	}

	seen := map[string]bool{subject.Name: true}
	queue := append([]string(nil), subject.Supertypes...)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true

		if name == contract {
			return true
		}

		t, err := r.load(name)
		if err != nil {
			continue
		}
		queue = append(queue, t.Supertypes...)
	}
	return false
}

func joinContracts(contracts []Contract) string {
	out := ""
	for i, c := range contracts {
		if i > 0 {
			out += ", "
		}
		out += string(c)
	}
	return out
}
