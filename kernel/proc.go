package kernel

import "fmt"

// ProcState is the process state machine from spec.md §3.
type ProcState int

const (
	StateUnused ProcState = iota
	StateUsed
	StateSleeping
	StateRunnable
	StateRunning
	StateZombie
)

func (s ProcState) String() string {
	switch s {
	case StateUnused:
		return "UNUSED"
	case StateUsed:
		return "USED"
	case StateSleeping:
		return "SLEEPING"
	case StateRunnable:
		return "RUNNABLE"
	case StateRunning:
		return "RUNNING"
	case StateZombie:
		return "ZOMBIE"
	default:
		return fmt.Sprintf("STATE(%d)", int(s))
	}
}

// Workload is the "user program" a process executes: a plain Go closure
// standing in for the source kernel's compiled-in initcode and the user
// binaries it execs. A Workload is handed a *Kernel and its own *Proc and
// drives itself forward by calling Kernel methods (Sleep, Yield, Fork,
// Exit, ...); it returns when the process is done, at which point the
// kernel treats a Workload that returns without calling Exit as exiting
// with status 0.
type Workload func(k *Kernel, p *Proc)

// Proc is a process-table slot (spec.md §3). Every field below is guarded
// by the slot's own lock unless documented otherwise.
type Proc struct {
	lock  *Spinlock
	index int // stable slot index; determines KStack

	State   ProcState
	Pid     int
	Parent  *Proc // guarded by Table.waitLock, not lock
	chanTok WaitChannel
	Killed  bool
	XState  int

	Sz              uint64
	AddrSpace       *AddressSpace
	TrapFrame       *TrapFrame
	BackupTrapFrame *TrapFrame
	KStack          uint64

	OFile [NOFILE]*FileHandle
	CWD   *INodeHandle
	Name  string

	CTime, ETime             Tick
	TimeRun, TimeSlept       Tick
	LastScheduled, LastSlept Tick

	Priority       int
	Niceness       int
	Tickets        int
	TimesScheduled int

	Queue          int
	EntryTime      Tick
	TimeRanInQueue Tick

	Trace uint

	AlarmFreq    Tick
	AlarmHandler uint64
	LastAlarm    Tick
	AlarmRunning bool

	// onCPU is the Cpu this process is currently dispatched on; valid
	// exactly while State == StateRunning (and briefly while a syscall
	// issued by this process is unwinding back to the scheduler).
	onCPU *Cpu

	// resumeCh is how a CPU's scheduler loop redispatches this process
	// after its first run; started guards the one-time goroutine launch
	// that plays the role of the first swtch into forkret.
	resumeCh chan struct{}
	started  bool
	workload Workload
}

// Lock acquires the slot's lock on behalf of cpu.
func (p *Proc) Lock(cpu *Cpu) { p.lock.Acquire(cpu) }

// Unlock releases the slot's lock on behalf of cpu.
func (p *Proc) Unlock(cpu *Cpu) { p.lock.Release(cpu) }

// LockedBy reports whether cpu currently holds the slot's lock.
func (p *Proc) LockedBy(cpu *Cpu) bool { return p.lock.HeldBy(cpu) }

// Chan returns the wait-channel token the process is sleeping on, or the
// zero value if it is not SLEEPING. Callers normally hold p.Lock first.
func (p *Proc) Chan() WaitChannel { return p.chanTok }

// Index returns the slot's stable index in the process table.
func (p *Proc) Index() int { return p.index }

// CPU returns the Cpu this process is currently dispatched on, valid
// only while the process's own workload goroutine is executing (i.e.
// from inside a Workload), matching the source kernel's mycpu().
func (p *Proc) CPU() *Cpu { return p.onCPU }

func (p *Proc) reset() {
	p.State = StateUnused
	p.Pid = 0
	p.Parent = nil
	p.chanTok = noChannel
	p.Killed = false
	p.XState = 0
	p.Sz = 0
	p.AddrSpace = nil
	p.TrapFrame = nil
	p.BackupTrapFrame = nil
	p.Name = ""
	p.CTime, p.ETime = 0, 0
	p.TimeRun, p.TimeSlept = 0, 0
	p.LastScheduled, p.LastSlept = 0, 0
	p.Priority, p.Niceness, p.Tickets = 0, 0, 0
	p.TimesScheduled = 0
	p.Queue, p.EntryTime, p.TimeRanInQueue = 0, 0, 0
	p.Trace = 0
	p.AlarmFreq, p.AlarmHandler, p.LastAlarm, p.AlarmRunning = 0, 0, 0, false
	for i := range p.OFile {
		p.OFile[i] = nil
	}
	p.CWD = nil
	p.onCPU = nil
	p.started = false
	p.workload = nil
}
