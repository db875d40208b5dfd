package dsflint

import "fmt"

// Version is the linter version.
const Version = "0.5.0"

// APIVersion represents a DSF process-plugin API version.
// The acceptable capability contracts for an implementation type
// differ between API versions.
type APIVersion string

const (
	// V1 is process-plugin API version 1.
	V1 APIVersion = "1"
	// V2 is process-plugin API version 2.
	V2 APIVersion = "2"
)

// ParseAPIVersion converts a string to an APIVersion.
func ParseAPIVersion(s string) (APIVersion, error) {
	switch s {
	case "1", "v1":
		return V1, nil
	case "2", "v2":
		return V2, nil
	default:
		return "", fmt.Errorf("unsupported process-plugin API version: %q", s)
	}
}

// String returns the version string.
func (v APIVersion) String() string {
	return string(v)
}

// IsValid returns true for a known API version.
func (v APIVersion) IsValid() bool {
	return v == V1 || v == V2
}
