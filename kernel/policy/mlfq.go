package policy

import "github.com/arctir/kcore/kernel"

// mlfq implements the five-level multi-level feedback queue (spec.md
// C7's MLFQ): a process runs in queue 0 with the shortest quantum and
// the highest dispatch priority, is demoted a level each time it uses
// its full quantum, and is promoted back toward queue 0 if it waits
// longer than that queue's aging limit without running.
type mlfq struct {
	// rrCursor[q] is the round-robin cursor for queue q, used only for
	// queue 4's fallback scan (in every other queue the RUNNABLE process
	// with the smallest EntryTime wins).
	rrCursor [kernel.MLFQLevels]int
}

func newMLFQ() *mlfq { return &mlfq{} }

func (m *mlfq) Name() string   { return MLFQ }
func (m *mlfq) Preempts() bool { return true }

func (m *mlfq) Quantum(p *kernel.Proc) kernel.Tick {
	q := p.Queue
	if q < 0 || q >= kernel.MLFQLevels {
		q = kernel.MLFQLevels - 1
	}
	return kernel.MLFQQuantum[q]
}

// OnPreempt demotes p one queue level after it exhausts its quantum,
// capped at the lowest-priority queue, and resets its wait-for-aging
// clock since it has just been running, not waiting.
func (m *mlfq) OnPreempt(p *kernel.Proc, now kernel.Tick) {
	if p.Queue < kernel.MLFQLevels-1 {
		p.Queue++
	}
	p.EntryTime = now
	p.TimeRanInQueue = 0
}

// age promotes any RUNNABLE or SLEEPING process that has waited in its
// current queue longer than that queue's aging limit, one level toward
// queue 0. Called at the top of every PickNext, mirroring the source
// kernel checking wait time on every scheduler() pass.
func (m *mlfq) age(t *kernel.Table, cpu *kernel.Cpu, now kernel.Tick) {
	for _, p := range t.Slots() {
		p.Lock(cpu)
		waiting := p.State == kernel.StateRunnable || p.State == kernel.StateSleeping
		waitTime := now - p.EntryTime - p.TimeRanInQueue
		if waiting && p.Queue > 0 && waitTime >= kernel.MLFQAgingLimit[p.Queue] {
			p.Queue--
			p.EntryTime = now
			p.TimeRanInQueue = 0
		}
		p.Unlock(cpu)
	}
}

// PickNext scans queues 0 through 3 in priority order and, in the first
// queue that has a RUNNABLE process, dispatches the one with the smallest
// EntryTime; only when none of queues 0-3 has a runnable candidate does it
// fall back to round-robin across queue 4.
//
// DESIGN NOTES / Open Question: the source kernel's scheduler() scans
// queues 0-3 for a candidate but then unconditionally falls through into
// the queue-4 round-robin loop regardless of whether it already found
// one, so a queue-4 process can preempt a higher-priority candidate on
// the same pass. This PickNext returns as soon as it finds a candidate
// in queues 0-3 and only scans queue 4 when it didn't, matching the
// priority order the queue levels are supposed to enforce.
func (m *mlfq) PickNext(t *kernel.Table, cpu *kernel.Cpu, now kernel.Tick) *kernel.Proc {
	m.age(t, cpu, now)

	slots := t.Slots()
	for q := 0; q < kernel.MLFQLevels-1; q++ {
		var best *kernel.Proc
		var bestEntry kernel.Tick

		for _, p := range slots {
			p.Lock(cpu)
			if p.State != kernel.StateRunnable || p.Queue != q {
				p.Unlock(cpu)
				continue
			}
			if best == nil {
				best, bestEntry = p, p.EntryTime
				continue
			}
			if p.EntryTime < bestEntry {
				best.Unlock(cpu)
				best, bestEntry = p, p.EntryTime
				continue
			}
			p.Unlock(cpu)
		}
		if best != nil {
			best.Unlock(cpu)
			return best
		}
	}

	last := kernel.MLFQLevels - 1
	n := len(slots)
	for i := 1; i <= n; i++ {
		idx := (m.rrCursor[last] + i) % n
		p := slots[idx]
		p.Lock(cpu)
		if p.State == kernel.StateRunnable && p.Queue == last {
			m.rrCursor[last] = idx
			p.Unlock(cpu)
			return p
		}
		p.Unlock(cpu)
	}
	return nil
}
