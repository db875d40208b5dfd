// Package dsflint validates DSF process plugins: BPMN process definitions
// together with the FHIR resources they reference.
//
// A plugin is valid when every process-graph element satisfies its naming,
// configuration and implementation-capability rules, every referenced FHIR
// resource satisfies its profile-specific structural rules, and the two
// document families are mutually consistent.
//
// The root package holds the shared result model: validation items, severity
// ordering and the aggregated report. The engine never aborts on content
// defects; everything a rule finds becomes an Item and a run fails exactly
// when at least one error item exists.
//
// Subpackages:
//
//   - model:       encoding-agnostic document tree and path queries
//   - bpmn:        process-graph model and parser
//   - fhir:        resource-document model and canonical URL handling
//   - cache:       memoizing store backing the resolvers
//   - index:       cross-reference resolver over the plugin's resource files
//   - capability:  implementation-type contract resolution
//   - cardinality: base/slice occurrence bound checking
//   - router:      per-kind rule dispatch
//   - rules:       the rule sets themselves
//   - engine:      per-file and per-plugin orchestration
package dsflint
