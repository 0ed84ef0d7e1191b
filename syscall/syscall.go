// Package syscall is the numbered dispatch table in front of the
// scheduling core (spec.md §6): the thin layer a workload calls through
// instead of reaching into package kernel directly, so every call can be
// counted, traced and logged uniformly regardless of which syscall it
// is. It plays the same role sysproc.c and syscall.c play in the source
// kernel: syscall.c's numbered jump table plus sysproc.c's thin
// sys_*() wrappers collapsed into one Table type, since there's no
// separate user/kernel boundary to cross in a simulation.
package syscall

import (
	"github.com/rs/zerolog"

	"github.com/arctir/kcore/kernel"
)

// Numbers, matching spec.md §6's external-interface table exactly.
// Number 0 is deliberately unused, matching the source convention that
// syscall number 0 never names a real call.
const (
	SysFork = iota + 1
	SysExit
	SysWait
	SysGetpid
	SysSbrk
	SysSleep
	SysKill
	SysUptime
	SysTrace
	SysSetTickets
	SysSetPriority
	SysWaitx
	SysSigAlarm
	SysSigReturn
)

var names = map[int]string{
	SysFork:        "fork",
	SysExit:        "exit",
	SysWait:        "wait",
	SysGetpid:      "getpid",
	SysSbrk:        "sbrk",
	SysSleep:       "sleep",
	SysKill:        "kill",
	SysUptime:      "uptime",
	SysTrace:       "trace",
	SysSetTickets:  "settickets",
	SysSetPriority: "set_priority",
	SysWaitx:       "waitx",
	SysSigAlarm:    "sig_alarm",
	SysSigReturn:   "sig_return",
}

// Name returns the syscall name for num, or "unknown" for an
// unrecognized number.
func Name(num int) string {
	if n, ok := names[num]; ok {
		return n
	}
	return "unknown"
}

// Table binds the numbered syscall interface to a running Kernel,
// mirroring every call issued by the calling process p (spec.md §6's
// external interface). It also implements per-process strace-style
// tracing (spec.md SUPPLEMENTED FEATURES, drawn from the source
// kernel's user/strace.c): when bit (1<<num) is set in p.Trace, the call
// and its result are mirrored to the Table's logger.
type Table struct {
	k   *kernel.Kernel
	log zerolog.Logger
}

// NewTable binds a syscall Table to k, logging traced calls through log.
func NewTable(k *kernel.Kernel, log zerolog.Logger) *Table {
	return &Table{k: k, log: log}
}

func (t *Table) traced(p *kernel.Proc, num int) bool {
	return p.Trace&(1<<uint(num)) != 0
}

func (t *Table) trace(p *kernel.Proc, num int, result any) {
	if !t.traced(p, num) {
		return
	}
	t.log.Info().
		Int("pid", p.Pid).
		Str("syscall", Name(num)).
		Interface("result", result).
		Msg("strace")
}

// Fork is syscall 1: spec.md C3.
func (t *Table) Fork(p *kernel.Proc, child kernel.Workload) (int, error) {
	pid, err := t.k.Fork(p, child)
	t.trace(p, SysFork, pid)
	return pid, err
}

// Exit is syscall 2: spec.md C3. Never returns.
func (t *Table) Exit(p *kernel.Proc, status int) {
	t.trace(p, SysExit, status)
	t.k.Exit(p, status)
}

// Wait is syscall 3: spec.md C3.
func (t *Table) Wait(p *kernel.Proc) (int, int, error) {
	pid, status, err := t.k.Wait(p)
	t.trace(p, SysWait, pid)
	return pid, status, err
}

// Getpid is syscall 4.
func (t *Table) Getpid(p *kernel.Proc) int {
	t.trace(p, SysGetpid, p.Pid)
	return p.Pid
}

// Sbrk is syscall 5: spec.md §6 #5, proc.c's growproc.
func (t *Table) Sbrk(p *kernel.Proc, delta int64) (uint64, error) {
	old, err := t.k.Sbrk(p, delta)
	t.trace(p, SysSbrk, old)
	return old, err
}

// Sleep is syscall 6: blocks the caller for n ticks.
func (t *Table) Sleep(p *kernel.Proc, n kernel.Tick) {
	t.trace(p, SysSleep, n)
	t.k.SleepTicks(p, n)
}

// Kill is syscall 7: spec.md §7's async-kill flag.
func (t *Table) Kill(p *kernel.Proc, pid int) error {
	err := t.k.Kill(pid)
	t.trace(p, SysKill, pid)
	return err
}

// Uptime is syscall 8.
func (t *Table) Uptime(p *kernel.Proc) kernel.Tick {
	now := t.k.Now()
	t.trace(p, SysUptime, now)
	return now
}

// Trace is syscall 9: spec.md SUPPLEMENTED FEATURES. mask must be >= 2
// (bit 0, syscall number 0, is never a real call).
func (t *Table) Trace(p *kernel.Proc, mask uint) error {
	if mask < 2 {
		return kernel.ErrInvalidTraceMask
	}
	p.Trace = mask
	t.trace(p, SysTrace, mask)
	return nil
}

// SetTickets is syscall 10: spec.md C7's LBS.
func (t *Table) SetTickets(p *kernel.Proc, pid, tickets int) error {
	err := t.k.SetTickets(pid, tickets)
	t.trace(p, SysSetTickets, tickets)
	return err
}

// SetPriority is syscall 11: spec.md C9, sysproc.c's sys_set_priority.
func (t *Table) SetPriority(p *kernel.Proc, pid, priority int) (int, error) {
	old, err := t.k.SetPriority(pid, priority)
	t.trace(p, SysSetPriority, priority)
	return old, err
}

// Waitx is syscall 12: spec.md C3's accounting variant.
func (t *Table) Waitx(p *kernel.Proc) (int, int, kernel.Tick, kernel.Tick, error) {
	pid, status, rtime, wtime, err := t.k.Waitx(p)
	t.trace(p, SysWaitx, pid)
	return pid, status, rtime, wtime, err
}

// SigAlarm is syscall 13: spec.md C8.
func (t *Table) SigAlarm(p *kernel.Proc, freq kernel.Tick, handler uint64) error {
	err := t.k.SigAlarm(p, freq, handler)
	t.trace(p, SysSigAlarm, freq)
	return err
}

// SigReturn is syscall 14: spec.md C8.
func (t *Table) SigReturn(p *kernel.Proc) uint64 {
	a0 := t.k.SigReturn(p)
	t.trace(p, SysSigReturn, a0)
	return a0
}

// Yield gives up the calling process's CPU voluntarily (spec.md C6).
// Not one of spec.md §6's fourteen numbered syscalls — xv6 issues it as
// an implicit scheduler-loop preemption, not a user-callable trap — so
// it carries no syscall number and is never strace-traced.
func (t *Table) Yield(p *kernel.Proc) {
	t.k.Yield(p)
}

// Ps renders a table dump, the simulation's console ^P. Like Yield, it
// has no xv6 syscall number of its own; ^P is a console keystroke handled
// outside the syscall path, not a trap a user program issues.
func (t *Table) Ps(p *kernel.Proc, verbose bool) string {
	if verbose {
		return t.k.ProcDumpVerbose(p.CPU())
	}
	return t.k.ProcDump(p.CPU())
}
