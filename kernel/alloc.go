package kernel

// AllocProc scans the table for an UNUSED slot, initializes it to the
// defaults a freshly-forked process starts with, and returns it with its
// lock held — mirroring the source kernel's allocproc, which hands the
// caller a locked slot so fork/userinit can finish populating it without
// racing the scheduler. Returns ErrNoFreeSlot if the table is full.
func (t *Table) AllocProc(cpu *Cpu, now Tick) (*Proc, error) {
	for _, p := range t.slots {
		p.Lock(cpu)
		if p.State != StateUnused {
			p.Unlock(cpu)
			continue
		}
		p.Pid = t.allocPid(cpu)
		p.State = StateUsed
		p.CTime = now
		p.Priority = defaultPriority
		p.Niceness = defaultNiceness
		p.Tickets = defaultTickets
		p.Queue = 0
		p.EntryTime = now
		p.AddrSpace = newAddressSpace()
		p.TrapFrame = &TrapFrame{}
		p.KStack = kstackFor(p.index)
		return p, nil
	}
	return nil, ErrNoFreeSlot
}

// kstackFor derives a synthetic kernel-stack address from a slot index,
// standing in for the per-slot fixed KSTACK mapping the source kernel
// sets up in procinit(). Nothing dereferences this value; it exists so
// ProcDumpVerbose has something address-shaped to print.
func kstackFor(index int) uint64 {
	const kstackBase = 0xffffffffc0000000
	const pageSize = 4096
	return kstackBase + uint64(index)*2*pageSize
}

// FreeProc releases a slot's resources and returns it to UNUSED. The
// caller must hold p's lock; FreeProc does not release it.
func FreeProc(p *Proc) {
	p.reset()
}
