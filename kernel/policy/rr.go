package policy

import "github.com/arctir/kcore/kernel"

// roundRobin dispatches the first RUNNABLE slot found scanning the table
// in index order from the start every time, giving every process a fixed
// quantum before forcing a yield (spec.md C7's RR). Matches the source
// kernel's scheduler() loop, which restarts its for(p = proc; ...) scan
// at slot 0 on every pass rather than resuming after the last process
// dispatched.
type roundRobin struct {
	quantum kernel.Tick
}

func newRoundRobin() *roundRobin {
	return &roundRobin{quantum: 4}
}

func (r *roundRobin) Name() string                        { return RoundRobin }
func (r *roundRobin) Preempts() bool                       { return true }
func (r *roundRobin) Quantum(*kernel.Proc) kernel.Tick     { return r.quantum }
func (r *roundRobin) OnPreempt(*kernel.Proc, kernel.Tick) {}

func (r *roundRobin) PickNext(t *kernel.Table, cpu *kernel.Cpu, now kernel.Tick) *kernel.Proc {
	for _, p := range t.Slots() {
		p.Lock(cpu)
		if p.State == kernel.StateRunnable {
			p.Unlock(cpu)
			return p
		}
		p.Unlock(cpu)
	}
	return nil
}
