package policy

import "github.com/arctir/kcore/kernel"

// fcfs runs RUNNABLE processes to completion in creation order, never
// preempting (spec.md C7's FCFS): whichever RUNNABLE slot has the
// smallest creation time wins, and keeps the CPU until it blocks or
// exits on its own.
type fcfs struct{}

func newFCFS() *fcfs { return &fcfs{} }

func (f *fcfs) Name() string                        { return FCFS }
func (f *fcfs) Preempts() bool                      { return false }
func (f *fcfs) Quantum(*kernel.Proc) kernel.Tick     { return 0 }
func (f *fcfs) OnPreempt(*kernel.Proc, kernel.Tick) {}

func (f *fcfs) PickNext(t *kernel.Table, cpu *kernel.Cpu, now kernel.Tick) *kernel.Proc {
	var best *kernel.Proc
	var bestCTime kernel.Tick

	for _, p := range t.Slots() {
		p.Lock(cpu)
		if p.State != kernel.StateRunnable {
			p.Unlock(cpu)
			continue
		}
		if best == nil {
			best, bestCTime = p, p.CTime
			continue
		}
		if p.CTime < bestCTime {
			best.Unlock(cpu)
			best, bestCTime = p, p.CTime
			continue
		}
		p.Unlock(cpu)
	}
	if best != nil {
		best.Unlock(cpu)
	}
	return best
}
