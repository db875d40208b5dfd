// Package bpmn provides the process-graph model the linter validates.
// A graph is built once per file parse and is immutable afterwards; one
// validation pass owns it exclusively.
package bpmn

// NodeKind identifies the structural kind of a process-graph node.
// The set is closed: the router dispatches with an exhaustive switch, so
// adding a kind is a compile-time-checked change.
type NodeKind int

const (
	// KindServiceTask is an automated task backed by an implementation type.
	KindServiceTask NodeKind = iota
	// KindUserTask is a task completed by a person, usually via a Questionnaire.
	KindUserTask
	// KindSendTask is a task that sends a message to another organization.
	KindSendTask
	// KindReceiveTask is a task that waits for a message.
	KindReceiveTask
	// KindStartEvent starts a process, plain or with a timer/message trigger.
	KindStartEvent
	// KindEndEvent ends a process, plain or message-sending.
	KindEndEvent
	// KindIntermediateThrowEvent emits a message or signal mid-process.
	KindIntermediateThrowEvent
	// KindIntermediateCatchEvent waits for a message, signal or timer mid-process.
	KindIntermediateCatchEvent
	// KindBoundaryEvent attaches an interrupting trigger to another node.
	KindBoundaryEvent
	// KindExclusiveGateway routes along exactly one outgoing flow.
	KindExclusiveGateway
	// KindParallelGateway forks or joins parallel flows.
	KindParallelGateway
	// KindEventBasedGateway routes on the first event that occurs.
	KindEventBasedGateway
	// KindSequenceFlow connects two nodes, optionally conditioned.
	KindSequenceFlow
	// KindSubProcess nests a child graph inside a node.
	KindSubProcess
	// KindCallActivity invokes another process by id.
	KindCallActivity
)

// String returns the BPMN element name for the kind.
func (k NodeKind) String() string {
	switch k {
	case KindServiceTask:
		return "serviceTask"
	case KindUserTask:
		return "userTask"
	case KindSendTask:
		return "sendTask"
	case KindReceiveTask:
		return "receiveTask"
	case KindStartEvent:
		return "startEvent"
	case KindEndEvent:
		return "endEvent"
	case KindIntermediateThrowEvent:
		return "intermediateThrowEvent"
	case KindIntermediateCatchEvent:
		return "intermediateCatchEvent"
	case KindBoundaryEvent:
		return "boundaryEvent"
	case KindExclusiveGateway:
		return "exclusiveGateway"
	case KindParallelGateway:
		return "parallelGateway"
	case KindEventBasedGateway:
		return "eventBasedGateway"
	case KindSequenceFlow:
		return "sequenceFlow"
	case KindSubProcess:
		return "subProcess"
	case KindCallActivity:
		return "callActivity"
	default:
		return "unknown"
	}
}

// EventDefKind identifies the trigger kind of an event definition.
type EventDefKind int

const (
	// EventDefNone marks an event without a trigger.
	EventDefNone EventDefKind = iota
	// EventDefTimer marks a timer trigger.
	EventDefTimer
	// EventDefMessage marks a message trigger.
	EventDefMessage
	// EventDefSignal marks a signal trigger.
	EventDefSignal
	// EventDefConditional marks a condition trigger.
	EventDefConditional
	// EventDefError marks an error trigger.
	EventDefError
)

// String returns a readable name for the event definition kind.
func (k EventDefKind) String() string {
	switch k {
	case EventDefNone:
		return "none"
	case EventDefTimer:
		return "timer"
	case EventDefMessage:
		return "message"
	case EventDefSignal:
		return "signal"
	case EventDefConditional:
		return "conditional"
	case EventDefError:
		return "error"
	default:
		return "unknown"
	}
}

// EventSpec is the structural sub-configuration of an event node.
type EventSpec struct {
	// Kind of the trigger.
	Kind EventDefKind

	// MessageName for message triggers. For DSF plugins this is the
	// symbolic name that must resolve to an ActivityDefinition message.
	MessageName string

	// SignalName for signal triggers.
	SignalName string

	// TimerExpression is the ISO-8601 duration/cycle/date for timer triggers.
	TimerExpression string

	// Condition for conditional triggers.
	Condition string

	// Implementation is the listener/handler type configured on the
	// event definition, if any.
	Implementation string
}

// Node is one element of a process graph.
type Node struct {
	// ID is the element id, unique within the process.
	ID string

	// Name is the human-readable label; required for some kinds.
	Name string

	// Kind is the structural kind.
	Kind NodeKind

	// Parent is the enclosing sub-process node, nil at process level.
	Parent *Node

	// Implementation is the configured implementation type
	// (camunda:class on tasks, listener class on user tasks).
	Implementation string

	// Config holds injected field values and extension properties by name.
	Config map[string]string

	// Event is the structural sub-configuration for event nodes, nil otherwise.
	Event *EventSpec

	// SourceRef and TargetRef connect sequence flows.
	SourceRef string
	TargetRef string

	// Condition is the flow condition expression, flows only.
	Condition string
}

// Process is one executable process definition: an ordered set of typed nodes.
type Process struct {
	// ID is the process definition key, e.g. "domainorg_processName".
	ID string

	// Name is the optional human-readable process name.
	Name string

	// VersionTag is the declared process version, if any.
	VersionTag string

	// Nodes holds every node of the graph in document order,
	// including nodes nested in sub-processes.
	Nodes []*Node
}

// ByID returns the node with the given id, or nil.
func (p *Process) ByID(id string) *Node {
	for _, n := range p.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// OfKind returns all nodes of the given kind in document order.
func (p *Process) OfKind(kind NodeKind) []*Node {
	var out []*Node
	for _, n := range p.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// MessageNames returns the distinct message names declared by the
// process's message events and receive tasks, in first-seen order.
func (p *Process) MessageNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range p.Nodes {
		if n.Event == nil || n.Event.Kind != EventDefMessage || n.Event.MessageName == "" {
			continue
		}
		if !seen[n.Event.MessageName] {
			seen[n.Event.MessageName] = true
			out = append(out, n.Event.MessageName)
		}
	}
	return out
}

// Definitions is the content of one parsed BPMN file.
type Definitions struct {
	// Processes holds the executable process definitions in document order.
	Processes []*Process
}
