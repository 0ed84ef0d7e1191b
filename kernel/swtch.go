package kernel

// This file holds the one piece of the source kernel that is genuinely
// architecture-specific: swtch(), the raw context switch between a
// process's kernel thread and its CPU's scheduler thread. There is no
// register file or stack pointer to save here, so swtch is realized as a
// rendezvous between two goroutines: the process's own goroutine and its
// CPU's scheduler-loop goroutine, handed off over Cpu.yieldCh and the
// process's resumeCh. Everything else in this package — locking
// discipline, scheduling policy, sleep/wakeup — is ordinary portable Go
// built on top of this one primitive, exactly as the source kernel builds
// portable C on top of swtch.S.

// sched relinquishes cpu back to its scheduler loop and blocks until this
// process is redispatched. Preconditions mirror the source kernel's
// sched(): the caller holds exactly p's lock, p.State is not RUNNING
// (already changed by the caller), and cpu's interrupt-disable depth is
// exactly 1. sched returns with the same preconditions restored, ready
// for the caller to Unlock.
func (p *Proc) sched(cpu *Cpu) {
	if !p.LockedBy(cpu) {
		panic("kernel: sched called without holding p->lock")
	}
	if cpu.Noff != 1 {
		panic("kernel: sched called with cpu->noff != 1")
	}
	if p.State == StateRunning {
		panic("kernel: sched called on a RUNNING process")
	}
	intena := cpu.IntEna
	cpu.yieldCh <- p
	<-p.resumeCh
	cpu.IntEna = intena
}

// runEntry is a process's kernel thread. It plays the role of forkret:
// the first thing a freshly dispatched process does is release the lock
// the scheduler handed it across the swtch, exactly once, before running
// its workload to completion and exiting if the workload returns without
// calling Kernel.Exit itself.
func (p *Proc) runEntry(k *Kernel, cpu *Cpu) {
	p.Unlock(cpu)
	wl := p.workload
	if wl != nil {
		wl(k, p)
	}
	if p.State != StateZombie {
		k.Exit(p, 0)
	}
}

// runScheduler is a CPU's scheduler loop (spec.md C7/C8). It runs for the
// lifetime of the kernel, repeatedly asking the active Policy for the
// next RUNNABLE process, dispatching it, and waiting for it to give the
// CPU back.
func (cpu *Cpu) runScheduler(k *Kernel) {
	for {
		select {
		case <-k.stop:
			return
		default:
		}

		cpu.IntEna = true
		next := k.policy.PickNext(k.table, cpu, k.clock.Now())
		if next == nil {
			k.idle()
			continue
		}

		next.Lock(cpu)
		if next.State != StateRunnable {
			next.Unlock(cpu)
			continue
		}
		next.State = StateRunning
		next.onCPU = cpu
		next.LastScheduled = k.clock.Now()
		next.TimesScheduled++
		cpu.setCurrent(next)

		if !next.started {
			next.started = true
			go next.runEntry(k, cpu)
		} else {
			next.resumeCh <- struct{}{}
		}

		<-cpu.yieldCh
		cpu.setCurrent(nil)
		next.onCPU = nil
		next.Unlock(cpu)
	}
}
