package kernel

// Sleep puts the calling process p to sleep on chanTok (spec.md C6/§4.5).
// p must not hold its own lock on entry; Sleep acquires it, transitions
// to SLEEPING, gives up the CPU via sched, and on return — possibly much
// later, possibly on a different CPU — leaves p unlocked and RUNNING
// again. Sleep returns (aside from a spurious wakeup) either because
// Wakeup targeted chanTok or because p was killed while asleep.
func (k *Kernel) Sleep(p *Proc, chanTok WaitChannel) {
	cpu := p.onCPU
	p.Lock(cpu)
	p.chanTok = chanTok
	p.State = StateSleeping
	p.LastSlept = k.clock.Now()
	p.sched(cpu)
	p.chanTok = noChannel
	p.Unlock(cpu)
}

// Wakeup moves every process sleeping on chanTok to RUNNABLE (spec.md
// C6). It is called both by process workloads (naturally on their own
// onCPU) and by the kernel's clock goroutine (on the control CPU, per
// the source kernel's "only CPU 0 runs clockintr" convention).
func (k *Kernel) Wakeup(cpu *Cpu, chanTok WaitChannel) {
	for _, p := range k.table.Slots() {
		p.Lock(cpu)
		if p.State == StateSleeping && p.chanTok == chanTok {
			p.State = StateRunnable
			p.TimeSlept += k.clock.Now() - p.LastSlept
			recomputeNiceness(p)
		}
		p.Unlock(cpu)
	}
}

// recomputeNiceness updates p's dynamic niceness from its accumulated
// run/sleep time (spec.md §4.5/§4.9: niceness = 10*timeSlept /
// (timeSlept+timeRun)), the feedback PBS's DP formula relies on. A
// process with no run/sleep history yet (denominator 0, e.g. still on
// its first dispatch) keeps whatever niceness it already has.
func recomputeNiceness(p *Proc) {
	denom := p.TimeSlept + p.TimeRun
	if denom == 0 {
		return
	}
	p.Niceness = int(10 * p.TimeSlept / denom)
}

// SleepTicks blocks p for n ticks of wall-clock time, sleeping on the
// kernel's tick counter and re-checking elapsed time on every wakeup the
// exact way the source kernel's sys_sleep loops against a saved ticks0
// (an ordinary Wakeup broadcast can return spuriously early).
func (k *Kernel) SleepTicks(p *Proc, n Tick) {
	start := k.clock.Now()
	for k.clock.Now()-start < n {
		if p.Killed {
			return
		}
		k.Sleep(p, k.ticksChan)
	}
}

// Yield gives up the CPU voluntarily without blocking: p goes straight
// back to RUNNABLE and the scheduler may immediately redispatch it or
// pick someone else, per policy (spec.md C6, C9).
func (k *Kernel) Yield(p *Proc) {
	cpu := p.onCPU
	p.Lock(cpu)
	p.State = StateRunnable
	ran := k.clock.Now() - p.LastScheduled
	p.TimeRun += ran
	p.TimeRanInQueue += ran
	recomputeNiceness(p)
	p.sched(cpu)
	p.Unlock(cpu)
}
