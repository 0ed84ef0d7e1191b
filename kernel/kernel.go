package kernel

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config controls how a Kernel is constructed (spec.md §2). NewKernel
// raises a NumCPU below 1 to 1 and lowers one above NCPU to NCPU; it does
// not detect the host's core count itself (the CLIs pass
// host.DefaultCPUCount when no CPU count is given).
type Config struct {
	NumCPU       int
	Policy       Policy
	TickInterval time.Duration
	Logger       zerolog.Logger
}

// Kernel wires together the process table, the per-CPU scheduler loops,
// the clock, the RNG and the active scheduling policy: the complete
// scheduling core described by spec.md's OVERVIEW.
type Kernel struct {
	table      *Table
	cpus       []*Cpu
	controlCPU *Cpu
	clock      *Clock
	rng        *Rand
	policy     Policy
	log        zerolog.Logger

	ticksChan WaitChannel

	stop    chan struct{}
	started bool
}

// NewKernel allocates a Kernel with cfg.NumCPU simulated cores (minimum
// 1, maximum NCPU) and the given scheduling Policy. The kernel is not yet
// running; call Boot to start the clock and scheduler loops and enqueue
// the first (init) process.
func NewKernel(cfg Config) *Kernel {
	n := cfg.NumCPU
	if n <= 0 {
		n = 1
	}
	if n > NCPU {
		n = NCPU
	}
	if cfg.Policy == nil {
		panic("kernel: Config.Policy is required")
	}

	k := &Kernel{
		table:      newTable(),
		cpus:       make([]*Cpu, n),
		controlCPU: newCpu(-1),
		clock:      newClock(cfg.TickInterval),
		rng:        newRand(),
		policy:     cfg.Policy,
		log:        cfg.Logger,
		stop:       make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		k.cpus[i] = newCpu(i)
	}
	k.ticksChan = ChannelOf(k.clock)
	return k
}

// NumCPU reports how many simulated CPUs this kernel was built with.
func (k *Kernel) NumCPU() int { return len(k.cpus) }

// Table exposes the process table for read-only inspection (ProcDump,
// CLI listing, tests).
func (k *Kernel) Table() *Table { return k.table }

// PolicyName reports the active scheduling policy's name.
func (k *Kernel) PolicyName() string { return k.policy.Name() }

// Now reports the current tick count.
func (k *Kernel) Now() Tick { return k.clock.Now() }

// ControlCPU returns the locking identity external callers (CLI, UI,
// tests) should use for read-only operations issued outside of any
// simulated process's own Workload, such as ProcDump after the kernel
// has been stopped.
func (k *Kernel) ControlCPU() *Cpu { return k.controlCPU }

// Boot starts the clock and every CPU's scheduler loop, then allocates
// and enqueues the init process running initWorkload — the simulation's
// analogue of userinit() handing CPU 0 its first RUNNABLE process before
// the scheduler array starts spinning.
func (k *Kernel) Boot(initWorkload Workload) (*Proc, error) {
	if k.started {
		panic("kernel: Boot called twice")
	}
	k.started = true

	p, err := k.table.AllocProc(k.controlCPU, k.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("kernel: boot init process: %s", err)
	}
	p.Name = "init"
	p.Parent = nil
	p.workload = initWorkload
	p.State = StateRunnable
	p.Unlock(k.controlCPU)

	go k.clock.run(k.stop, k.onTick)
	for _, cpu := range k.cpus {
		go cpu.runScheduler(k)
	}

	k.log.Info().Str("policy", k.policy.Name()).Int("ncpu", len(k.cpus)).Msg("kernel booted")
	return p, nil
}

// Stop halts the clock and every scheduler loop. It does not forcibly
// kill running processes: a workload already on a CPU keeps running until
// it next gives the CPU up (sleep, yield or exit), and is never
// dispatched again after that. No new process is dispatched either.
func (k *Kernel) Stop() {
	close(k.stop)
}

// idle is what a scheduler loop does when no process is RUNNABLE: back
// off briefly rather than burn a host core spinning, the simulation's
// concession to not having a real WFI/halt instruction.
func (k *Kernel) idle() {
	time.Sleep(50 * time.Microsecond)
}

// onTick is the simulation's clockintr(): advance has already happened by
// the time this runs, so all it needs to do is wake anyone sleeping on
// the tick counter itself (spec.md's sleep(n)-style syscalls block on
// exactly this channel).
func (k *Kernel) onTick(now Tick) {
	k.Wakeup(k.controlCPU, k.ticksChan)
}
