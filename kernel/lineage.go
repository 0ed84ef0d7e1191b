package kernel

// Lineage is a process's ancestor chain, root (init) first, the target
// PID last. Adapted from the host-inspection CLI's resolvePIDRelationship
// walk, which recursed up a real /proc ppid chain; here the "ppid" link
// is the simulated Parent pointer instead of a procfs read.
type Lineage []int

// ResolveLineage walks pid's Parent chain back to init, collecting PIDs
// along the way. Returns ErrNoSuchProcess if pid names no USED-or-later
// slot.
func (k *Kernel) ResolveLineage(pid int) (Lineage, error) {
	p := k.table.Find(k.controlCPU, pid)
	if p == nil {
		return nil, ErrNoSuchProcess
	}
	var chain Lineage
	for cur := p; cur != nil; {
		chain = append(chain, cur.Pid)
		parent := cur.Parent
		cur.Unlock(k.controlCPU)
		if parent == nil {
			cur = nil
			break
		}
		parent.Lock(k.controlCPU)
		cur = parent
	}
	// reverse into root-first order
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Children returns the PIDs of every process currently parented to pid.
func (k *Kernel) Children(pid int) ([]int, error) {
	target := k.table.Find(k.controlCPU, pid)
	if target == nil {
		return nil, ErrNoSuchProcess
	}
	target.Unlock(k.controlCPU)

	var kids []int
	for _, c := range k.table.Slots() {
		c.Lock(k.controlCPU)
		if c.State != StateUnused && c.Parent != nil && c.Parent.Pid == pid {
			kids = append(kids, c.Pid)
		}
		c.Unlock(k.controlCPU)
	}
	return kids, nil
}
