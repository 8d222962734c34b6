// Package docgen runs the documentation workflow for one repository: four
// named progress phases followed by a single generation request.
package docgen

// Phase is one named step of the progress sequence.
type Phase struct {
	Name        string
	Description string
}

// Phases are shown in order before the generation request is sent.
var Phases = []Phase{
	{Name: "Analyzing Repository", Description: "Scanning repository structure and files"},
	{Name: "Processing Code", Description: "Understanding codebase architecture and dependencies"},
	{Name: "Generating Content", Description: "Creating comprehensive documentation with AI"},
	{Name: "Formatting Output", Description: "Applying proper markdown formatting and structure"},
}

// State is the position of a workflow in its lifecycle.
type State int

const (
	StateIdle State = iota
	StatePhase1
	StatePhase2
	StatePhase3
	StatePhase4
	StateRequesting
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePhase1, StatePhase2, StatePhase3, StatePhase4:
		return "phase"
	case StateRequesting:
		return "requesting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Running reports whether the workflow is between Start and a terminal state.
func (s State) Running() bool {
	return s >= StatePhase1 && s <= StateRequesting
}

// PhaseIndex is the zero based index into Phases, or -1 outside the phases.
func (s State) PhaseIndex() int {
	if s >= StatePhase1 && s <= StatePhase4 {
		return int(s - StatePhase1)
	}
	return -1
}
