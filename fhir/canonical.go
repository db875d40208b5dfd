package fhir

import "strings"

// Canonical is a globally unique, optionally versioned URL identifying a
// resource. "url|version" pins an exact version; a bare url matches any.
type Canonical struct {
	URL     string
	Version string
}

// ParseCanonical splits a canonical reference at the last '|'.
func ParseCanonical(s string) Canonical {
	if i := strings.LastIndex(s, "|"); i >= 0 {
		return Canonical{URL: s[:i], Version: s[i+1:]}
	}
	return Canonical{URL: s}
}

// String renders the canonical back to its reference form.
func (c Canonical) String() string {
	if c.Version == "" {
		return c.URL
	}
	return c.URL + "|" + c.Version
}

// AnyVersion returns true if the canonical does not pin a version.
func (c Canonical) AnyVersion() bool {
	return c.Version == ""
}

// Matches reports whether a resource with the given url and version
// satisfies this canonical. Unversioned canonicals match any version;
// versioned canonicals match exactly.
func (c Canonical) Matches(url, version string) bool {
	if c.URL != url {
		return false
	}
	return c.AnyVersion() || c.Version == version
}
