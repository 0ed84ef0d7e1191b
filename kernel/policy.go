package kernel

// Policy is the pluggable scheduler-selection strategy (spec.md C7). It is
// declared here, in the kernel package, rather than alongside its
// implementations so that the kernel package never has to import the
// policy package; concrete policies (package policy) import kernel and are
// wired in by the caller that constructs a Kernel, avoiding an import
// cycle while keeping PickNext's signature expressed entirely in terms of
// the kernel's own types.
type Policy interface {
	// Name identifies the policy, e.g. for logging and CLI selection.
	Name() string

	// Preempts reports whether this policy wants a periodic timer-tick
	// preemption (RR, MLFQ) as opposed to running a process to voluntary
	// yield/sleep/exit (FCFS).
	Preempts() bool

	// Quantum returns how many ticks a process may run before the timer
	// handler should force a yield, for policies where that is a fixed or
	// per-process value (RR: fixed; MLFQ: per-queue). Policies that don't
	// preempt return 0.
	Quantum(p *Proc) Tick

	// PickNext chooses the next RUNNABLE process to dispatch on cpu, or
	// nil if none is available. Implementations inspect and mutate slot
	// state only while holding that slot's lock, acquired via p.Lock(cpu).
	PickNext(t *Table, cpu *Cpu, now Tick) *Proc

	// OnPreempt is called when p has used up its quantum, just before it
	// is forced to yield (as opposed to yielding or sleeping
	// voluntarily). Policies with per-process state keyed on quantum
	// expiry (MLFQ's demotion) update it here; policies without such
	// state (RR, FCFS, LBS, PBS) no-op.
	OnPreempt(p *Proc, now Tick)
}
