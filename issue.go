package dsflint

// Severity represents the severity of a validation item.
type Severity string

const (
	// SeverityError indicates a defect that makes the plugin invalid.
	SeverityError Severity = "error"
	// SeverityWarning indicates a potential problem that should be reviewed.
	SeverityWarning Severity = "warning"
	// SeverityInfo indicates informational feedback.
	SeverityInfo Severity = "info"
	// SeveritySuccess indicates a sub-check that passed.
	SeveritySuccess Severity = "success"
)

// Rank returns the ordering weight of a severity.
// ERROR > WARN > INFO > SUCCESS.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	case SeveritySuccess:
		return 0
	default:
		return -1
	}
}

// ItemKind classifies what a validation item is about.
type ItemKind string

const (
	// KindParse indicates a file could not be parsed at all.
	KindParse ItemKind = "unparsable"
	// KindStructure indicates a structural defect in a document.
	KindStructure ItemKind = "structure"
	// KindNaming indicates a naming-convention violation.
	KindNaming ItemKind = "naming"
	// KindConfiguration indicates a missing or invalid element configuration.
	KindConfiguration ItemKind = "configuration"
	// KindCapability indicates an implementation type does not satisfy its contract.
	KindCapability ItemKind = "capability"
	// KindNotFound indicates a referenced resource or type was not found.
	KindNotFound ItemKind = "not-found"
	// KindDuplicate indicates two files declare the same canonical identifier.
	KindDuplicate ItemKind = "duplicate"
	// KindReference indicates a cross-document reference inconsistency.
	KindReference ItemKind = "reference"
	// KindCardinality indicates a min/max occurrence violation.
	KindCardinality ItemKind = "cardinality"
	// KindSlicing indicates a slice-bound declaration violation.
	KindSlicing ItemKind = "slicing"
	// KindPlaceholder indicates a missing deployment placeholder token.
	KindPlaceholder ItemKind = "placeholder"
	// KindCoding indicates a code that is not a member of its coding system.
	KindCoding ItemKind = "code-invalid"
)

// Location identifies where in a plugin an item was found.
type Location struct {
	// File is the path of the file the item refers to, relative to the plugin root.
	File string `json:"file,omitempty"`

	// ProcessID is the id of the process definition, if any.
	ProcessID string `json:"processId,omitempty"`

	// ElementID is the id of the graph element or document element, if any.
	ElementID string `json:"elementId,omitempty"`
}

// Item represents a single validation finding.
// Every evaluated sub-check produces exactly one Item, including SUCCESS on
// pass; the item stream is a positive audit trail, not only a defect list.
type Item struct {
	// Severity of the finding.
	Severity Severity `json:"severity"`

	// Kind classifying the finding.
	Kind ItemKind `json:"kind"`

	// Location of the finding.
	Location Location `json:"location"`

	// Message contains human-readable details.
	Message string `json:"message"`

	// Rule names the sub-check that produced this item.
	Rule string `json:"rule,omitempty"`
}

// IsError returns true if this item fails the run.
func (i Item) IsError() bool {
	return i.Severity == SeverityError
}

// String returns a human-readable representation of the item.
func (i Item) String() string {
	loc := i.Location.File
	if i.Location.ElementID != "" {
		loc += "#" + i.Location.ElementID
	}
	if loc != "" {
		loc = " at " + loc
	}
	return string(i.Severity) + ": " + i.Message + loc
}

// ItemBuilder provides a fluent API for building items.
type ItemBuilder struct {
	item Item
}

// NewItem creates a new ItemBuilder.
func NewItem(severity Severity, kind ItemKind) *ItemBuilder {
	return &ItemBuilder{
		item: Item{
			Severity: severity,
			Kind:     kind,
		},
	}
}

// Error creates an error item builder.
func Error(kind ItemKind) *ItemBuilder {
	return NewItem(SeverityError, kind)
}

// Warning creates a warning item builder.
func Warning(kind ItemKind) *ItemBuilder {
	return NewItem(SeverityWarning, kind)
}

// Info creates an informational item builder.
func Info(kind ItemKind) *ItemBuilder {
	return NewItem(SeverityInfo, kind)
}

// Success creates a success item builder.
func Success(kind ItemKind) *ItemBuilder {
	return NewItem(SeveritySuccess, kind)
}

// Message sets the item message.
func (b *ItemBuilder) Message(msg string) *ItemBuilder {
	b.item.Message = msg
	return b
}

// In sets the file the item refers to.
func (b *ItemBuilder) In(file string) *ItemBuilder {
	b.item.Location.File = file
	return b
}

// Process sets the process id.
func (b *ItemBuilder) Process(id string) *ItemBuilder {
	b.item.Location.ProcessID = id
	return b
}

// Element sets the element id.
func (b *ItemBuilder) Element(id string) *ItemBuilder {
	b.item.Location.ElementID = id
	return b
}

// Rule sets the sub-check name.
func (b *ItemBuilder) Rule(name string) *ItemBuilder {
	b.item.Rule = name
	return b
}

// Build returns the constructed item.
func (b *ItemBuilder) Build() Item {
	return b.item
}
