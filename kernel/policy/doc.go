// Package policy implements the five pluggable scheduling strategies
// spec.md's component C7 describes: round-robin, first-come-first-served,
// lottery (LBS), priority-based (PBS) and multi-level feedback queue
// (MLFQ). Each implements kernel.Policy; New looks one up by name for the
// CLI and tests, the same "pick by string, dispatch on a tagged variant"
// shape the source kernel's scheduler() got via a build-time #ifdef.
package policy

import (
	"fmt"

	"github.com/arctir/kcore/kernel"
)

// Names of the five policies New accepts.
const (
	RoundRobin  = "rr"
	FCFS        = "fcfs"
	Lottery     = "lbs"
	PriorityBased = "pbs"
	MLFQ        = "mlfq"
)

// New constructs the named policy. Returns an error for any name other
// than the five spec.md defines.
func New(name string) (kernel.Policy, error) {
	switch name {
	case RoundRobin:
		return newRoundRobin(), nil
	case FCFS:
		return newFCFS(), nil
	case Lottery:
		return newLottery(), nil
	case PriorityBased:
		return newPBS(), nil
	case MLFQ:
		return newMLFQ(), nil
	default:
		return nil, fmt.Errorf("policy: unknown scheduling policy %q", name)
	}
}
