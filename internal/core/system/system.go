package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput  Phase = iota // 0: drain transport queues into the input stream
	PhaseUpdate              // 1: timed game logic
	PhaseOutput              // 2: read a snapshot and publish it
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseUpdate:
		return "update"
	case PhaseOutput:
		return "output"
	default:
		return "unknown"
	}
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
