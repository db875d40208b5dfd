package cardinality

import (
	"fmt"
	"strings"

	"github.com/datasharingframework/dsf-linter-sub005/fhir"
	"github.com/datasharingframework/dsf-linter-sub005/model"
)

// ElementDef carries the bounds of one snapshot element.
type ElementDef struct {
	ID        string
	Path      string
	SliceName string
	Min       Bound
	Max       Bound
}

// SliceSet is one sliced base element and its direct slices.
// Slice maxima already have base inheritance applied: a slice that declares
// no maximum carries the base maximum.
type SliceSet struct {
	Base   ElementDef
	Slices []ElementDef
}

// Collect extracts the slice sets of a StructureDefinition snapshot.
// A slice root is an element whose id is "<baseId>:<sliceName>" with no
// further path segments after the slice name; nested children of a slice are
// not slice roots. Elements with malformed bound values are reported and
// skipped.
func Collect(sd *fhir.Resource) ([]SliceSet, []error) {
	if sd == nil || sd.Tree == nil {
		return nil, nil
	}

	var errs []error
	defs := map[string]*ElementDef{}
	var order []string

	snapshot := sd.Tree.Child("snapshot")
	if snapshot == nil {
		return nil, nil
	}
	for _, el := range snapshot.ChildrenNamed("element") {
		def, err := parseElement(el)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sd.File, err))
			continue
		}
		if def.ID == "" {
			continue
		}
		defs[def.ID] = def
		order = append(order, def.ID)
	}

	var sets []SliceSet
	for _, id := range order {
		def := defs[id]
		if strings.Contains(id, ":") {
			continue
		}
		slices := collectSlices(defs, order, id)
		if len(slices) == 0 {
			continue
		}
		for i := range slices {
			if !slices[i].Max.IsSet() {
				slices[i].Max = def.Max
			}
		}
		sets = append(sets, SliceSet{Base: *def, Slices: slices})
	}
	return sets, errs
}

// collectSlices returns the direct slices of a base id in snapshot order.
func collectSlices(defs map[string]*ElementDef, order []string, baseID string) []ElementDef {
	prefix := baseID + ":"
	var out []ElementDef
	for _, id := range order {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		rest := id[len(prefix):]
		if rest == "" || strings.ContainsAny(rest, ".:") {
			continue
		}
		out = append(out, *defs[id])
	}
	return out
}

// parseElement reads id, path, sliceName and bounds of a snapshot element.
func parseElement(el *model.Element) (*ElementDef, error) {
	id := el.Attr("id")
	if id == "" {
		id = el.ValueAt("id")
	}

	minBound, err := Parse(el.ValueAt("min"))
	if err != nil {
		return nil, fmt.Errorf("element %s: min: %w", id, err)
	}
	maxBound, err := Parse(el.ValueAt("max"))
	if err != nil {
		return nil, fmt.Errorf("element %s: max: %w", id, err)
	}

	return &ElementDef{
		ID:        id,
		Path:      el.ValueAt("path"),
		SliceName: el.ValueAt("sliceName"),
		Min:       minBound,
		Max:       maxBound,
	}, nil
}
