package scheduler

import "fmt"

// Mode selects how the probes of a round are executed.
type Mode int

const (
	// ModeSequential probes endpoints one after another in configured order.
	ModeSequential Mode = iota
	// ModeConcurrent probes every endpoint of a round at once and joins.
	ModeConcurrent
)

func (m Mode) String() string {
	switch m {
	case ModeSequential:
		return "sequential"
	case ModeConcurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
