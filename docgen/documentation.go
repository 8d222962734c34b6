package docgen

import (
	"time"

	"github.com/jrsteele09/reposcribe/repositories"
)

// Status mirrors the generator's status field. Only completed results are
// ever stored; failures live in Snapshot.Error.
type Status string

const StatusCompleted Status = "completed"

// Documentation is the generated README for one repository. It lives only in
// memory and is replaced wholesale on regenerate.
type Documentation struct {
	ID          string                  `json:"id"`
	Repository  repositories.Repository `json:"repository"`
	Content     string                  `json:"content"`
	GeneratedAt time.Time               `json:"generatedAt"`
	Status      Status                  `json:"status"`
}

// Snapshot is a copy of the workflow state handed to views and subscribers.
type Snapshot struct {
	State      State
	Repository repositories.Repository
	Result     *Documentation
	Error      string
}

// Phase returns the active phase, if any.
func (s Snapshot) Phase() (Phase, bool) {
	idx := s.State.PhaseIndex()
	if idx < 0 {
		return Phase{}, false
	}
	return Phases[idx], true
}

// Step is the 1 based progress step for display: phases count 1..4 and the
// request counts as the last phase.
func (s Snapshot) Step() int {
	switch {
	case s.State.PhaseIndex() >= 0:
		return s.State.PhaseIndex() + 1
	case s.State == StateRequesting, s.State == StateCompleted:
		return len(Phases)
	default:
		return 0
	}
}

func (s Snapshot) clone() Snapshot {
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}
