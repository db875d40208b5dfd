// Package fhir provides the resource-document model: a schema-tagged tree
// with a canonical identifier and pre-extracted facts, immutable after parse.
package fhir

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/datasharingframework/dsf-linter-sub005/model"
)

// Kind identifies a resource-document kind by its root element name.
type Kind string

// Resource kinds a DSF plugin ships.
const (
	KindActivityDefinition  Kind = "ActivityDefinition"
	KindTask                Kind = "Task"
	KindStructureDefinition Kind = "StructureDefinition"
	KindValueSet            Kind = "ValueSet"
	KindCodeSystem          Kind = "CodeSystem"
	KindQuestionnaire       Kind = "Questionnaire"
	KindLibrary             Kind = "Library"
	KindMeasure             Kind = "Measure"
)

// Extension URLs used by DSF process authorization.
const (
	ExtensionProcessAuthorization = "http://dsf.dev/fhir/StructureDefinition/extension-process-authorization"
	ExtensionMessageName          = "message-name"
	ExtensionTaskProfile          = "task-profile"
	ExtensionRequester            = "requester"
	ExtensionRecipient            = "recipient"
)

// Resource is one parsed resource document.
// Immutable after parse; derived facts are extracted eagerly so the
// cross-reference index can serve them without re-walking the tree.
type Resource struct {
	// Kind of the resource, from the root element name.
	Kind Kind

	// URL is the canonical identifier, empty for instance resources.
	URL string

	// Version is the declared business version, if any.
	Version string

	// Name is the computable resource name, if any.
	Name string

	// Status is the publication status (draft, active, ...).
	Status string

	// File is the path the resource was read from, relative to the
	// plugin root.
	File string

	// Tree is the normalized document tree.
	Tree *model.Element
}

// Parse reads a resource document from raw bytes, detecting XML or JSON by
// the first non-space byte, and normalizes it into a Resource.
func Parse(data []byte, file string) (*Resource, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty resource file")
	}

	var tree *model.Element
	var err error
	if trimmed[0] == '{' {
		tree, err = model.ParseJSON(trimmed)
	} else {
		tree, err = model.ParseXML(bytes.NewReader(trimmed))
	}
	if err != nil {
		return nil, err
	}
	return FromTree(tree, file), nil
}

// FromTree builds a Resource from an already-normalized document tree.
func FromTree(tree *model.Element, file string) *Resource {
	return &Resource{
		Kind:    Kind(tree.Name),
		URL:     tree.ValueAt("url"),
		Version: tree.ValueAt("version"),
		Name:    tree.ValueAt("name"),
		Status:  tree.ValueAt("status"),
		File:    file,
		Tree:    tree,
	}
}

// Canonical returns the resource's canonical identifier.
func (r *Resource) Canonical() Canonical {
	return Canonical{URL: r.URL, Version: r.Version}
}

// extensionURL reads an extension's url, which XML carries as an attribute
// and normalized JSON as a child element.
func extensionURL(ext *model.Element) string {
	if u := ext.Attr("url"); u != "" {
		return u
	}
	return ext.ValueAt("url")
}

// extensions returns the direct extension children of el with the given url.
func extensions(el *model.Element, url string) []*model.Element {
	var out []*model.Element
	for _, ext := range el.ChildrenNamed("extension") {
		if extensionURL(ext) == url {
			out = append(out, ext)
		}
	}
	return out
}

// MessageAuthorizations returns one entry per process-authorization
// extension on an ActivityDefinition: the message name and the task profile
// it binds. Other kinds return nil.
func (r *Resource) MessageAuthorizations() []MessageAuthorization {
	if r.Kind != KindActivityDefinition {
		return nil
	}

	var out []MessageAuthorization
	for _, auth := range extensions(r.Tree, ExtensionProcessAuthorization) {
		var ma MessageAuthorization
		for _, sub := range auth.ChildrenNamed("extension") {
			switch extensionURL(sub) {
			case ExtensionMessageName:
				ma.MessageName = sub.ValueAt("valueString")
				if ma.MessageName == "" {
					ma.MessageName = sub.Value()
				}
			case ExtensionTaskProfile:
				ma.TaskProfile = ParseCanonical(firstNonEmpty(
					sub.ValueAt("valueCanonical"), sub.Value()))
			case ExtensionRequester:
				ma.Requesters++
			case ExtensionRecipient:
				ma.Recipients++
			}
		}
		out = append(out, ma)
	}
	return out
}

// MessageAuthorization is one message a process accepts, with the task
// profile authorized to carry it.
type MessageAuthorization struct {
	MessageName string
	TaskProfile Canonical
	Requesters  int
	Recipients  int
}

// InstantiatesCanonical returns the Task's instantiated process canonical,
// or the zero Canonical for other kinds.
func (r *Resource) InstantiatesCanonical() Canonical {
	if r.Kind != KindTask {
		return Canonical{}
	}
	return ParseCanonical(r.Tree.ValueAt("instantiatesCanonical"))
}

// TaskProfiles returns the profiles a Task instance declares in meta.profile.
func (r *Resource) TaskProfiles() []Canonical {
	meta := r.Tree.Child("meta")
	if meta == nil {
		return nil
	}
	var out []Canonical
	for _, p := range meta.ChildrenNamed("profile") {
		if v := p.Value(); v != "" {
			out = append(out, ParseCanonical(v))
		}
	}
	return out
}

// Codes returns the concept codes a CodeSystem defines, or nil for other
// kinds. Nested concepts are flattened.
func (r *Resource) Codes() []string {
	if r.Kind != KindCodeSystem {
		return nil
	}
	var out []string
	var walk func(el *model.Element)
	walk = func(el *model.Element) {
		for _, c := range el.ChildrenNamed("concept") {
			if code := c.ValueAt("code"); code != "" {
				out = append(out, code)
			}
			walk(c)
		}
	}
	walk(r.Tree)
	return out
}

// Includes returns the coding systems a ValueSet composes over, with the
// explicitly enumerated codes per system (empty = whole system).
func (r *Resource) Includes() []ValueSetInclude {
	if r.Kind != KindValueSet {
		return nil
	}
	compose := r.Tree.Child("compose")
	if compose == nil {
		return nil
	}
	var out []ValueSetInclude
	for _, inc := range compose.ChildrenNamed("include") {
		vi := ValueSetInclude{System: inc.ValueAt("system")}
		for _, c := range inc.ChildrenNamed("concept") {
			if code := c.ValueAt("code"); code != "" {
				vi.Codes = append(vi.Codes, code)
			}
		}
		out = append(out, vi)
	}
	return out
}

// ValueSetInclude is one compose.include entry of a ValueSet.
type ValueSetInclude struct {
	System string
	Codes  []string
}

// ProcessKey derives the process definition key from a DSF process URL like
// "http://dsf.dev/bpe/Process/processName": the domain's second-level name
// joined with the last path segment, e.g. "dsfdev_processName".
func ProcessKey(processURL string) string {
	c := ParseCanonical(processURL)
	rest, ok := strings.CutPrefix(c.URL, "http://")
	if !ok {
		rest, ok = strings.CutPrefix(c.URL, "https://")
		if !ok {
			return ""
		}
	}
	slash := strings.Index(rest, "/")
	if slash < 0 {
		return ""
	}
	host := rest[:slash]
	name := rest[strings.LastIndex(rest, "/")+1:]
	if host == "" || name == "" {
		return ""
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return ""
	}
	org := labels[len(labels)-2] + labels[len(labels)-1]
	return org + "_" + name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
