package kernel

import "time"

// SigAlarm arms a periodic user alarm for p (spec.md C8's
// sigalarm/sigreturn pair, sysproc.c's sys_sigalarm). The interval is
// counted in kernel clock ticks since the alarm was armed or last fired,
// not in p's own run time: ticks during which p is off the CPU count too.
// The check is made only while p runs Spin. Returns ErrInvalidInterval if
// freq <= 0.
func (k *Kernel) SigAlarm(p *Proc, freq Tick, handler uint64) error {
	if freq <= 0 {
		return ErrInvalidInterval
	}
	cpu := p.onCPU
	p.Lock(cpu)
	p.AlarmFreq = freq
	p.AlarmHandler = handler
	p.LastAlarm = k.clock.Now()
	p.Unlock(cpu)
	return nil
}

// SigReturn restores p's trap frame from the backup taken when its alarm
// handler was invoked, and clears AlarmRunning so the next alarm can
// fire (spec.md C8's sigreturn). Returns the value the interrupted code
// should see as the syscall's own return value: the restored A0.
func (k *Kernel) SigReturn(p *Proc) uint64 {
	cpu := p.onCPU
	p.Lock(cpu)
	if p.BackupTrapFrame != nil {
		p.TrapFrame = p.BackupTrapFrame
		p.BackupTrapFrame = nil
	}
	p.AlarmRunning = false
	p.Unlock(cpu)
	return p.TrapFrame.A0()
}

// checkAlarm fires p's alarm handler if one is armed and due. Called
// from Spin at each simulated tick boundary, mirroring usertrap()'s
// per-timer-interrupt alarm check while a process is running in user
// mode. Firing snapshots the trap frame (so SigReturn can restore it)
// and points the frame's PC at the handler, the way usertrap redirects
// the user PC.
func (k *Kernel) checkAlarm(p *Proc) {
	cpu := p.onCPU
	p.Lock(cpu)
	due := p.AlarmFreq > 0 && !p.AlarmRunning && k.clock.Now()-p.LastAlarm >= p.AlarmFreq
	if !due {
		p.Unlock(cpu)
		return
	}
	p.BackupTrapFrame = p.TrapFrame.Clone()
	p.AlarmRunning = true
	p.LastAlarm = k.clock.Now()
	handler := p.AlarmHandler
	p.TrapFrame.PC = handler
	p.Unlock(cpu)

	k.log.Debug().Int("pid", p.Pid).Uint64("handler", handler).Msg("alarm fired")
}

// PageFault simulates the copy-on-write fault handler (spec.md C8/§4.8):
// on a write to a COW page, materialize a private copy so the writing
// process no longer shares it. Returns ErrAddressSpace if addr does not
// name a page currently marked COW (the simulated analogue of "not our
// fault to handle", which the source kernel's usertrap forwards to a
// fatal-fault kill).
func (k *Kernel) PageFault(p *Proc, addr uint64) error {
	cpu := p.onCPU
	p.Lock(cpu)
	defer p.Unlock(cpu)

	page := addr &^ 0xfff
	if !p.AddrSpace.COWPages[page] {
		return ErrAddressSpace
	}
	delete(p.AddrSpace.COWPages, page)
	return nil
}

// spinPoll is how finely Spin samples the global clock while simulating
// CPU-bound work. It is deliberately much finer than any realistic
// TickInterval so Spin notices a tick boundary promptly without missing
// alarm or preemption checks.
const spinPoll = 50 * time.Microsecond

// Spin simulates p running CPU-bound work for n ticks of wall-clock
// time, the workload-level primitive scenario programs use in place of
// a real busy loop (spec.md's heavy.c-style workloads). At every tick
// boundary it checks for an async kill, fires a due alarm, and — for a
// preempting policy — yields once the process has used up its current
// quantum, exactly as the timer trap would force a reschedule.
func (k *Kernel) Spin(p *Proc, n Tick) {
	start := k.clock.Now()
	for k.clock.Now()-start < n {
		if p.Killed {
			k.Exit(p, -1)
			return
		}
		k.checkAlarm(p)
		if k.policy.Preempts() {
			q := k.policy.Quantum(p)
			if q > 0 && k.clock.Now()-p.LastScheduled >= q {
				k.policy.OnPreempt(p, k.clock.Now())
				k.Yield(p)
			}
		}
		time.Sleep(spinPoll)
	}
	// Credit only the run time not already accounted for: a mid-spin
	// Yield (above) already added its own slice of TimeRun/TimeRanInQueue
	// and reset LastScheduled on redispatch, so crediting a flat n here on
	// top of that would double-count it. This always credits exactly the
	// time since the last dispatch or mid-spin Yield.
	ran := k.clock.Now() - p.LastScheduled
	p.TimeRun += ran
	p.TimeRanInQueue += ran
}
