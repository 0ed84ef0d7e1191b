package kernel

// Table is the fixed-size process table (spec.md §3, NPROC slots). Two
// locks guard cross-slot invariants that no single slot lock can protect:
// pidLock serializes PID allocation, waitLock serializes the
// reparenting/wakeup dance between exit and wait so a child can never be
// adopted twice or missed by a waiting parent (spec.md §4.4/§4.5).
type Table struct {
	slots   [NPROC]*Proc
	pidLock *Spinlock
	nextPid int

	waitLock *Spinlock
}

func newTable() *Table {
	t := &Table{
		pidLock:  NewSpinlock("pid_lock"),
		waitLock: NewSpinlock("wait_lock"),
		nextPid:  1,
	}
	for i := range t.slots {
		t.slots[i] = &Proc{
			lock:     NewSpinlock("proc"),
			index:    i,
			resumeCh: make(chan struct{}),
		}
	}
	return t
}

// Slots returns every slot in the table, USED or not. Callers that need a
// consistent view across slots (schedulers, ProcDump, tests) acquire each
// slot's own lock as they inspect it, per spec.md's locking-order rule
// that no single lock protects cross-slot state.
func (t *Table) Slots() []*Proc {
	out := make([]*Proc, len(t.slots))
	copy(out, t.slots[:])
	return out
}

// allocPid hands out the next PID. It may be called with a slot lock held
// (AllocProc does); pidLock is a leaf, so nothing else is acquired while
// it is held.
func (t *Table) allocPid(cpu *Cpu) int {
	t.pidLock.Acquire(cpu)
	pid := t.nextPid
	t.nextPid++
	t.pidLock.Release(cpu)
	return pid
}

// Find returns the slot holding pid, with its lock held, or nil if no
// such process is USED or later in its lifecycle. Mirrors the source
// kernel's getProc, including its surprising "returns locked" contract.
func (t *Table) Find(cpu *Cpu, pid int) *Proc {
	for _, p := range t.slots {
		p.Lock(cpu)
		if p.State != StateUnused && p.Pid == pid {
			return p
		}
		p.Unlock(cpu)
	}
	return nil
}
