// Package model provides the encoding-agnostic document tree the linter
// works on. BPMN process files, FHIR XML resources and FHIR JSON resources
// are all normalized into the same Element shape, so rule sets query one
// representation regardless of source encoding.
package model

import "strings"

// Element is a single node in a parsed document tree.
type Element struct {
	// Name is the local (namespace-stripped) element name.
	Name string

	// Attrs holds the element's attributes by local name.
	Attrs map[string]string

	// Children holds child elements in document order.
	Children []*Element

	// Text is the character content, if any.
	Text string
}

// Attr returns the attribute with the given local name, or "".
func (e *Element) Attr(name string) string {
	if e == nil {
		return ""
	}
	return e.Attrs[name]
}

// HasAttr returns true if the attribute is present, even when empty.
func (e *Element) HasAttr(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.Attrs[name]
	return ok
}

// Child returns the first child with the given local name, or nil.
func (e *Element) Child(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all children with the given local name.
func (e *Element) ChildrenNamed(name string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first element at the given dot-separated path below e,
// or nil. Example: Find("snapshot.element") returns the first element child
// of the first snapshot child.
func (e *Element) Find(path string) *Element {
	cur := e
	for _, seg := range strings.Split(path, ".") {
		cur = cur.Child(seg)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FindAll returns all elements at the given dot-separated path below e.
// Every segment but the last follows first matches; the last segment
// collects all matches.
func (e *Element) FindAll(path string) []*Element {
	if e == nil {
		return nil
	}
	segs := strings.Split(path, ".")
	cur := e
	for _, seg := range segs[:len(segs)-1] {
		cur = cur.Child(seg)
		if cur == nil {
			return nil
		}
	}
	return cur.ChildrenNamed(segs[len(segs)-1])
}

// Value returns the element's scalar value: the "value" attribute when
// present (FHIR XML and XML-normalized JSON store primitives there), the
// text content otherwise.
func (e *Element) Value() string {
	if e == nil {
		return ""
	}
	if v, ok := e.Attrs["value"]; ok {
		return v
	}
	return strings.TrimSpace(e.Text)
}

// ValueAt returns the scalar value of the element at path, or "".
func (e *Element) ValueAt(path string) string {
	return e.Find(path).Value()
}

// ValuesAt returns the scalar values of all elements at path.
func (e *Element) ValuesAt(path string) []string {
	elems := e.FindAll(path)
	if len(elems) == 0 {
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, el := range elems {
		out = append(out, el.Value())
	}
	return out
}

// Walk visits e and every descendant in document order.
// If fn returns false, the walk stops.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if e == nil {
		return true
	}
	if !fn(e) {
		return false
	}
	for _, c := range e.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
