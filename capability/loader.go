package capability

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadCatalogFile reads a symbol table extracted from the plugin's compiled
// artifacts: a mapping of fully qualified type names to their direct
// supertypes.
func LoadCatalogFile(path string) (*MapCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading type catalog: %w", err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing type catalog %s: %w", path, err)
	}

	types := make([]*Type, 0, len(raw))
	for name, supertypes := range raw {
		types = append(types, &Type{Name: name, Supertypes: supertypes})
	}
	return NewMapCatalog(types), nil
}
