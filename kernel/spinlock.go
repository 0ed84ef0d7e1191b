package kernel

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Spinlock is a mutual-exclusion primitive that additionally tracks its
// owner, so that a recursive acquisition by the same holder can be caught
// and treated as the fatal bug spec.md §4.1 says it is, rather than
// deadlocking silently the way a bare sync.Mutex would.
//
// There is no real interrupt controller underneath this simulation, so
// "disabling interrupts" has no hardware effect; what the spec actually
// needs from that mechanism — nested acquire/release bookkeeping scoped to
// a single CPU — is modeled on Cpu.Noff/Cpu.IntEna instead, and Spinlock
// itself only provides exclusion plus owner tracking.
type Spinlock struct {
	name  string
	mu    sync.Mutex
	held  atomic.Bool
	owner atomic.Int64 // a Cpu.ID (or -1) of whoever currently holds the lock
}

// NewSpinlock returns a named, unheld lock. The name exists purely for
// diagnostics, the same role "proc" and "wait_lock" play as literal
// strings passed to initlock() in the source kernel.
func NewSpinlock(name string) *Spinlock {
	l := &Spinlock{name: name}
	l.owner.Store(-1)
	return l
}

// Acquire takes the lock on behalf of the given CPU. Acquiring a lock the
// same CPU already holds is a bug, not a runtime condition, and panics
// rather than deadlocking.
func (l *Spinlock) Acquire(cpu *Cpu) {
	if l.held.Load() && l.owner.Load() == int64(cpu.ID) {
		panic(fmt.Sprintf("spinlock %q: recursive acquire by cpu %d", l.name, cpu.ID))
	}
	cpu.pushOff()
	l.mu.Lock()
	l.held.Store(true)
	l.owner.Store(int64(cpu.ID))
}

// Release gives up the lock. Releasing a lock not held by cpu is a bug.
func (l *Spinlock) Release(cpu *Cpu) {
	if !l.HeldBy(cpu) {
		panic(fmt.Sprintf("spinlock %q: release by non-owner cpu %d", l.name, cpu.ID))
	}
	l.owner.Store(-1)
	l.held.Store(false)
	l.mu.Unlock()
	cpu.popOff()
}

// HeldBy reports whether cpu currently holds the lock.
func (l *Spinlock) HeldBy(cpu *Cpu) bool {
	return l.held.Load() && l.owner.Load() == int64(cpu.ID)
}

// Held reports whether any CPU currently holds the lock.
func (l *Spinlock) Held() bool {
	return l.held.Load()
}
