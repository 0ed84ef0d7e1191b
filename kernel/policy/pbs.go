package policy

import "github.com/arctir/kcore/kernel"

// pbs dispatches the RUNNABLE process with the lowest dynamic priority
// (spec.md C7's PBS — lower DP wins, matching the source kernel's
// convention that priority 0 outranks priority 100). Ties break first by
// fewer TimesScheduled, then by earlier CTime, both favoring processes
// that have had less of a chance to run yet.
type pbs struct{}

func newPBS() *pbs { return &pbs{} }

func (pb *pbs) Name() string                        { return PriorityBased }
func (pb *pbs) Preempts() bool                      { return false }
func (pb *pbs) Quantum(*kernel.Proc) kernel.Tick     { return 0 }
func (pb *pbs) OnPreempt(*kernel.Proc, kernel.Tick) {}

// dynamicPriority computes DP = clamp(priority - niceness + 5, 0, 100),
// the formula spec.md's PBS component specifies.
func dynamicPriority(priority, niceness int) int {
	dp := priority - niceness + 5
	if dp < 0 {
		return 0
	}
	if dp > 100 {
		return 100
	}
	return dp
}

func (pb *pbs) PickNext(t *kernel.Table, cpu *kernel.Cpu, now kernel.Tick) *kernel.Proc {
	var best *kernel.Proc
	var bestDP, bestSched int
	var bestCTime kernel.Tick

	for _, p := range t.Slots() {
		p.Lock(cpu)
		if p.State != kernel.StateRunnable {
			p.Unlock(cpu)
			continue
		}
		dp := dynamicPriority(p.Priority, p.Niceness)
		better := best == nil ||
			dp < bestDP ||
			(dp == bestDP && p.TimesScheduled < bestSched) ||
			(dp == bestDP && p.TimesScheduled == bestSched && p.CTime < bestCTime)
		if better {
			if best != nil {
				best.Unlock(cpu)
			}
			best, bestDP, bestSched, bestCTime = p, dp, p.TimesScheduled, p.CTime
			continue
		}
		p.Unlock(cpu)
	}
	if best != nil {
		best.Unlock(cpu)
	}
	return best
}
