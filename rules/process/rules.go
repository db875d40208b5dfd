// Package process contains the rule sets applied to process graph nodes:
// naming and configuration conventions, implementation capability checks and
// the process-to-resource reference checks.
package process

import (
	"github.com/datasharingframework/dsf-linter-sub005/bpmn"
	"github.com/datasharingframework/dsf-linter-sub005/router"
)

// Register wires the fixed rule constructor list into the router.
// Adding a rule means adding it here; there is no runtime discovery.
func Register(r *router.ProcessRouter) {
	r.HandleProcess(
		NewDefinitionRule(),
		NewMessageDeclarationRule(),
	)

	naming := NewNamingRule()

	r.Handle(bpmn.KindServiceTask, naming, NewServiceTaskRule())
	r.Handle(bpmn.KindSendTask, naming, NewMessageSendRule())
	r.Handle(bpmn.KindReceiveTask, naming, NewMessageReceiveRule())
	r.Handle(bpmn.KindUserTask, naming, NewUserTaskRule())

	r.Handle(bpmn.KindStartEvent, NewStartEventRule())
	r.Handle(bpmn.KindEndEvent, NewMessageSendRule())
	r.Handle(bpmn.KindIntermediateThrowEvent, NewMessageSendRule())
	r.Handle(bpmn.KindIntermediateCatchEvent, NewMessageReceiveRule(), NewTimerRule())
	r.Handle(bpmn.KindBoundaryEvent, NewTimerRule())

	r.Handle(bpmn.KindSequenceFlow, NewFlowRule())
	r.Handle(bpmn.KindSubProcess, naming)
	r.Handle(bpmn.KindCallActivity, naming)
}
