// Package report renders a finished linter run for consumption: plain text
// for terminals, JSON and YAML for tooling.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
)

// Summary counts findings per severity.
type Summary struct {
	Errors    int `json:"errors" yaml:"errors"`
	Warnings  int `json:"warnings" yaml:"warnings"`
	Infos     int `json:"infos" yaml:"infos"`
	Successes int `json:"successes" yaml:"successes"`
}

// Document is the serializable form of one linter run.
type Document struct {
	RunID     string         `json:"runId" yaml:"runId"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Root      string         `json:"root" yaml:"root"`
	Version   string         `json:"linterVersion" yaml:"linterVersion"`
	Passed    bool           `json:"passed" yaml:"passed"`
	Summary   Summary        `json:"summary" yaml:"summary"`
	Items     []dsflint.Item `json:"items" yaml:"items"`
}

// New builds a report document from a finished run.
func New(root string, rep *dsflint.Report) *Document {
	return &Document{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Root:      root,
		Version:   dsflint.Version,
		Passed:    rep.Passed,
		Summary: Summary{
			Errors:    rep.Count(dsflint.SeverityError),
			Warnings:  rep.Count(dsflint.SeverityWarning),
			Infos:     rep.Count(dsflint.SeverityInfo),
			Successes: rep.Count(dsflint.SeveritySuccess),
		},
		Items: append([]dsflint.Item(nil), rep.Items...),
	}
}

// Write renders the document in the given format: text, json or yaml.
func (d *Document) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		return d.WriteJSON(w)
	case "yaml":
		return d.WriteYAML(w)
	case "text", "":
		return d.WriteText(w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteJSON renders the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteYAML renders the document as YAML.
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(d)
}

// WriteText renders the document for a terminal. Successes are summarized,
// not listed.
func (d *Document) WriteText(w io.Writer) error {
	for _, item := range d.Items {
		if item.Severity == dsflint.SeveritySuccess {
			continue
		}
		if _, err := fmt.Fprintln(w, item.String()); err != nil {
			return err
		}
	}

	verdict := "PASSED"
	if !d.Passed {
		verdict = "FAILED"
	}
	_, err := fmt.Fprintf(w, "%s: %d errors, %d warnings, %d infos, %d checks passed\n",
		verdict, d.Summary.Errors, d.Summary.Warnings, d.Summary.Infos, d.Summary.Successes)
	return err
}
