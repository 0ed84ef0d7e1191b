// Package kernel implements the process-management and scheduling core: a
// fixed-size process table, five interchangeable dispatch policies, the
// sleep/wakeup rendezvous, and the trap-path hooks (timer preemption,
// user alarms, copy-on-write faults) that drive them.
//
// There is no real hardware underneath this package. CPUs are goroutines,
// a process's kernel thread is a goroutine, and the single
// architecture-specific primitive a real kernel would need (swtch) is
// realized as a channel rendezvous between a process and its CPU. Every
// other rule in the spec this package implements — locking discipline,
// state machine, accounting — holds exactly as documented.
package kernel

// Tick is the sole time base for scheduling and accounting.
type Tick uint64

const (
	// NPROC bounds the number of simultaneously live process slots.
	NPROC = 64
	// NOFILE bounds the per-process open file table.
	NOFILE = 16
	// NCPU bounds the number of simulated hardware threads.
	NCPU = 8
	// MaxVA is the simulated ceiling on a user virtual address. PageFault
	// does not check addresses against it.
	MaxVA = 1 << 38
)

const (
	defaultPriority = 60
	defaultNiceness = 5
	defaultTickets  = 1
)

// MLFQLevels is the number of MLFQ priority queues (spec.md §4.6).
const MLFQLevels = 5

// MLFQQuantum[q] is the number of ticks a process may run in queue q
// before being demoted (spec.md §4.6, MLFQ).
var MLFQQuantum = [MLFQLevels]Tick{1, 2, 4, 8, 16}

// MLFQAgingLimit[q] is the number of ticks a RUNNABLE/SLEEPING process may
// wait in queue q before being promoted one level. Index 0 is unused:
// queue 0 is already the highest priority and cannot be aged further.
var MLFQAgingLimit = [MLFQLevels]Tick{0, 50, 100, 150, 200}
