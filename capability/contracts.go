// Package capability decides which capability contract, if any, a named
// implementation type satisfies. The linter has no static type information
// for plugin code, so satisfaction is resolved against a project-scoped type
// catalog: "satisfies" means assignable-to in the plugin's type system.
package capability

import (
	dsflint "github.com/datasharingframework/dsf-linter-sub005"
)

// Contract names a capability contract an implementation type can satisfy.
type Contract string

// Capability contracts per plugin API version. V1 contracts live under the
// v1 activity package and still accept the raw engine delegate; V2 dropped
// the engine delegate. Listener contracts are version-independent.
const (
	ContractServiceTaskV1 Contract = "dev.dsf.bpe.v1.activity.ServiceTask"
	ContractServiceTaskV2 Contract = "dev.dsf.bpe.v2.activity.ServiceTask"
	ContractJavaDelegate  Contract = "org.camunda.bpm.engine.delegate.JavaDelegate"

	ContractMessageSendV1 Contract = "dev.dsf.bpe.v1.activity.MessageSendTask"
	ContractMessageSendV2 Contract = "dev.dsf.bpe.v2.activity.MessageSendTask"

	ContractUserTaskListener  Contract = "dev.dsf.bpe.v1.activity.UserTaskListener"
	ContractExecutionListener Contract = "org.camunda.bpm.engine.delegate.ExecutionListener"
)

// ElementClass groups structural node kinds by the contract set their
// implementation types must satisfy.
type ElementClass int

const (
	// ClassServiceTask covers service tasks.
	ClassServiceTask ElementClass = iota
	// ClassMessageSend covers send tasks, message throw events and
	// message end events.
	ClassMessageSend
	// ClassListener covers user-task and execution listeners. Its
	// contract set is disjoint from the task classes and identical
	// across API versions.
	ClassListener
)

// String returns a readable name for the element class.
func (c ElementClass) String() string {
	switch c {
	case ClassServiceTask:
		return "service-task"
	case ClassMessageSend:
		return "message-send"
	case ClassListener:
		return "listener"
	default:
		return "unknown"
	}
}

// requirementKey addresses one row of the contract table.
// Listener rows use the empty version: their contracts do not vary.
type requirementKey struct {
	version dsflint.APIVersion
	class   ElementClass
}

// contractTable maps (API version, element class) to the ordered candidate
// contracts. Order is precedence: the first contract the subject type is
// assignable to wins.
var contractTable = map[requirementKey][]Contract{
	{dsflint.V1, ClassServiceTask}: {ContractServiceTaskV1, ContractJavaDelegate},
	{dsflint.V2, ClassServiceTask}: {ContractServiceTaskV2},

	{dsflint.V1, ClassMessageSend}: {ContractMessageSendV1, ContractJavaDelegate},
	{dsflint.V2, ClassMessageSend}: {ContractMessageSendV2},

	{"", ClassListener}: {ContractUserTaskListener, ContractExecutionListener},
}

// Candidates returns the ordered candidate contracts for an element class
// under the given API version. The slice must not be modified.
func Candidates(version dsflint.APIVersion, class ElementClass) []Contract {
	if class == ClassListener {
		return contractTable[requirementKey{class: ClassListener}]
	}
	return contractTable[requirementKey{version: version, class: class}]
}
