package kernel

import "fmt"

// Fork creates a child of p running workload, copying p's address space
// (COW, per AddressSpace.clone) and trap frame (spec.md C3). It returns
// the child's PID, or an error if the table is full or address-space
// setup fails. Mirrors the source kernel's fork(), including returning
// with neither lock held on success.
func (k *Kernel) Fork(p *Proc, workload Workload) (int, error) {
	cpu := p.onCPU
	child, err := k.table.AllocProc(cpu, k.clock.Now())
	if err != nil {
		return -1, err
	}

	child.AddrSpace = p.AddrSpace.clone()
	child.TrapFrame = p.TrapFrame.Clone()
	child.TrapFrame.SetA0(0) // fork returns 0 in the child
	child.Sz = p.Sz
	child.Name = p.Name
	child.Trace = p.Trace
	child.Tickets = p.Tickets
	child.Priority = defaultPriority
	child.Niceness = defaultNiceness
	child.workload = workload

	k.table.waitLock.Acquire(cpu)
	child.Parent = p
	k.table.waitLock.Release(cpu)

	child.State = StateRunnable
	child.Unlock(cpu)

	pid := child.Pid
	k.log.Debug().Int("parent", p.Pid).Int("child", pid).Msg("fork")
	return pid, nil
}

// Sbrk grows or shrinks p's simulated address space by delta bytes,
// returning the size before the change (spec.md §6 #5, proc.c's
// growproc/sysproc.c's sys_sbrk). Returns ErrAddressSpace if delta would
// shrink Sz below zero.
func (k *Kernel) Sbrk(p *Proc, delta int64) (uint64, error) {
	cpu := p.onCPU
	p.Lock(cpu)
	defer p.Unlock(cpu)

	old := p.Sz
	next := int64(p.Sz) + delta
	if next < 0 {
		return 0, ErrAddressSpace
	}
	p.Sz = uint64(next)
	p.AddrSpace.Size = p.Sz
	return old, nil
}

// Exit tears a process down: reparents its children to init, marks
// itself ZOMBIE with the given exit status, wakes its parent (who may be
// blocked in Wait), and relinquishes the CPU for the last time (spec.md
// C3). Exit never returns: the calling goroutine stays blocked inside
// sched, because a ZOMBIE is never dispatched again.
func (k *Kernel) Exit(p *Proc, status int) {
	cpu := p.onCPU
	if cpu == nil {
		panic("kernel: Exit called on a process with no onCPU")
	}

	k.table.waitLock.Acquire(cpu)
	k.reparent(cpu, p)

	parent := p.Parent
	p.Lock(cpu)
	p.XState = status
	p.State = StateZombie
	p.ETime = k.clock.Now()
	p.Unlock(cpu)

	if parent != nil {
		k.Wakeup(cpu, ChannelOf(parent))
	}
	k.table.waitLock.Release(cpu)

	p.Lock(cpu)
	p.sched(cpu)
	panic("kernel: zombie process resumed after Exit")
}

// reparent gives every child of p to the init process. Caller must hold
// waitLock.
func (k *Kernel) reparent(cpu *Cpu, p *Proc) {
	initProc := k.table.slots[0]
	for _, c := range k.table.Slots() {
		if c == p {
			continue
		}
		c.Lock(cpu)
		wake := false
		if c.Parent == p {
			c.Parent = initProc
			wake = c.State == StateZombie
		}
		c.Unlock(cpu)
		if wake {
			k.Wakeup(cpu, ChannelOf(initProc))
		}
	}
}

// Wait blocks p until one of its children exits, returning the child's
// PID and exit status (spec.md C3). ErrNoChildren if p has none;
// ErrKilled if p is killed while waiting.
func (k *Kernel) Wait(p *Proc) (int, int, error) {
	cpu := p.onCPU
	for {
		k.table.waitLock.Acquire(cpu)
		haveChildren := false
		for _, c := range k.table.Slots() {
			c.Lock(cpu)
			if c.Parent != p {
				c.Unlock(cpu)
				continue
			}
			haveChildren = true
			if c.State == StateZombie {
				pid, status := c.Pid, c.XState
				FreeProc(c)
				c.Unlock(cpu)
				k.table.waitLock.Release(cpu)
				return pid, status, nil
			}
			c.Unlock(cpu)
		}
		if !haveChildren || p.Killed {
			k.table.waitLock.Release(cpu)
			if !haveChildren {
				return -1, 0, ErrNoChildren
			}
			return -1, 0, ErrKilled
		}
		k.sleepOnWaitLock(p, cpu)
	}
}

// sleepOnWaitLock implements wait()'s sleep(p, &wait_lock): p sleeps on
// its own identity as the wait-channel (a parent blocked in wait() is
// woken by a child's exit calling Wakeup(ChannelOf(parent))), releasing
// waitLock atomically with going to sleep the way the source kernel's
// sleep() releases an arbitrary caller-supplied lock.
func (k *Kernel) sleepOnWaitLock(p *Proc, cpu *Cpu) {
	p.Lock(cpu)
	p.chanTok = ChannelOf(p)
	p.State = StateSleeping
	p.LastSlept = k.clock.Now()
	k.table.waitLock.Release(cpu)
	p.sched(cpu)
	p.chanTok = noChannel
	p.Unlock(cpu)
}

// Waitx behaves like Wait but additionally reports the child's total
// runtime (TimeRun) and wait time in ticks, for the -x accounting
// syscall (spec.md C3, sysproc.c's sys_waitx).
func (k *Kernel) Waitx(p *Proc) (pid, status int, rtime, wtime Tick, err error) {
	cpu := p.onCPU
	for {
		k.table.waitLock.Acquire(cpu)
		haveChildren := false
		for _, c := range k.table.Slots() {
			c.Lock(cpu)
			if c.Parent != p {
				c.Unlock(cpu)
				continue
			}
			haveChildren = true
			if c.State == StateZombie {
				pid, status = c.Pid, c.XState
				rtime = c.TimeRun
				wtime = c.ETime - c.CTime - c.TimeRun
				FreeProc(c)
				c.Unlock(cpu)
				k.table.waitLock.Release(cpu)
				return pid, status, rtime, wtime, nil
			}
			c.Unlock(cpu)
		}
		if !haveChildren || p.Killed {
			k.table.waitLock.Release(cpu)
			if !haveChildren {
				return -1, 0, 0, 0, ErrNoChildren
			}
			return -1, 0, 0, 0, ErrKilled
		}
		k.sleepOnWaitLock(p, cpu)
	}
}

// Kill marks the process with the given PID for death: sets its Killed
// flag, and if it is currently SLEEPING, wakes it so it can notice the
// flag and unwind (spec.md §7, "async kill = flag", C3). Uses the
// kernel's control CPU as its locking identity since Kill is issued by
// external callers (syscall dispatch on behalf of some other process, or
// the CLI/test harness), not by the target process itself.
func (k *Kernel) Kill(pid int) error {
	p := k.table.Find(k.controlCPU, pid)
	if p == nil {
		return ErrNoSuchProcess
	}
	p.Killed = true
	if p.State == StateSleeping {
		p.State = StateRunnable
	}
	p.Unlock(k.controlCPU)
	return nil
}

// SetPriority sets the base priority of pid, returning its previous
// value (spec.md C9, sysproc.c's sys_set_priority). It releases the
// slot's lock only on the success path.
//
// DESIGN NOTES / Open Question: the source kernel releases p->lock even
// when the PID search falls through without a match — a use-after-free
// hazard on a lock nothing acquired for that path. Table.Find here only
// ever returns a slot with its lock already held when it matches, and
// holds no lock when it returns nil, so there is no held-but-unreleased
// (or released-but-never-held) lock to mishandle on either path.
func (k *Kernel) SetPriority(pid, priority int) (int, error) {
	p := k.table.Find(k.controlCPU, pid)
	if p == nil {
		return -1, ErrNoSuchProcess
	}
	old := p.Priority
	p.Priority = priority
	shouldYield := priority < old
	p.Unlock(k.controlCPU)
	if shouldYield && p.State == StateRunning {
		k.Yield(p)
	}
	return old, nil
}

// SetNiceness sets pid's niceness, used by the PBS dynamic-priority
// formula (spec.md C7/PBS).
func (k *Kernel) SetNiceness(pid, niceness int) error {
	p := k.table.Find(k.controlCPU, pid)
	if p == nil {
		return ErrNoSuchProcess
	}
	p.Niceness = niceness
	p.Unlock(k.controlCPU)
	return nil
}

// SetTickets sets pid's lottery ticket count (spec.md C7/LBS). Returns
// ErrInvalidTickets if tickets < 1.
func (k *Kernel) SetTickets(pid, tickets int) error {
	if tickets < 1 {
		return ErrInvalidTickets
	}
	p := k.table.Find(k.controlCPU, pid)
	if p == nil {
		return ErrNoSuchProcess
	}
	p.Tickets = tickets
	p.Unlock(k.controlCPU)
	return nil
}

// NameOf returns a human-readable description of a PID lookup failure,
// used by the CLI and syscall layers to format errors consistently.
func NameOf(pid int, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("pid %d: %s", pid, err)
}
