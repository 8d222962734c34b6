package config

import "time"

type WorkflowConfig interface {
	GetPhaseDelay() time.Duration
	GetContainsAPI() bool
}

type Workflow struct{}

var _ WorkflowConfig = Workflow{}

func (Workflow) GetPhaseDelay() time.Duration {
	d := getDuration("PHASE_DELAY", 2*time.Second)
	if d < 0 {
		return 0
	}
	return d
}

func (Workflow) GetContainsAPI() bool {
	return getBool("CONTAINS_API", true)
}
