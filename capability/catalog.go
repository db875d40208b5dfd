package capability

import (
	"errors"
	"fmt"
)

// ErrTypeNotFound is returned when a catalog does not know a type at all.
var ErrTypeNotFound = errors.New("type not found")

// Type is one entry of a plugin's type catalog: a fully qualified name and
// the fully qualified names of its direct supertypes (superclass and
// implemented interfaces).
type Type struct {
	Name       string
	Supertypes []string
}

// Catalog looks up types from a plugin's compiled artifacts. It is the
// single "does type T exist and what does it extend" abstraction the
// capability resolver is built on; implementations may be backed by a
// pre-built symbol table or a static-analysis pass over the artifacts.
type Catalog interface {
	// Lookup returns the type with the given fully qualified name.
	// Returns ErrTypeNotFound when the catalog has no such type; any
	// other error is a load failure (missing dependency, broken entry).
	Lookup(name string) (*Type, error)
}

// MapCatalog is an in-memory Catalog built from an extracted symbol table.
type MapCatalog struct {
	types map[string]*Type
}

// NewMapCatalog creates a catalog over the given types.
func NewMapCatalog(types []*Type) *MapCatalog {
	m := make(map[string]*Type, len(types))
	for _, t := range types {
		m[t.Name] = t
	}
	return &MapCatalog{types: m}
}

// Lookup returns the type by name.
func (c *MapCatalog) Lookup(name string) (*Type, error) {
	t, ok := c.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	return t, nil
}

// Add registers a type, replacing any existing entry with the same name.
func (c *MapCatalog) Add(t *Type) {
	c.types[t.Name] = t
}

// Chain implements Catalog by trying multiple catalogs in order, so plugin
// artifacts can shadow the API's own symbol table.
type Chain struct {
	catalogs []Catalog
}

// NewChain creates a catalog chain.
func NewChain(catalogs ...Catalog) *Chain {
	return &Chain{catalogs: catalogs}
}

// Lookup tries each catalog until one knows the type.
func (c *Chain) Lookup(name string) (*Type, error) {
	for _, cat := range c.catalogs {
		t, err := cat.Lookup(name)
		if err == nil && t != nil {
			return t, nil
		}
		if err != nil && !errors.Is(err, ErrTypeNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
}

// Add appends a catalog to the chain.
func (c *Chain) Add(cat Catalog) {
	c.catalogs = append(c.catalogs, cat)
}
