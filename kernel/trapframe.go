package kernel

// TrapFrame stands in for the per-process user register save area. The
// trampoline/trap-entry assembly that would populate this on a real
// machine is explicitly out of scope (spec.md §1); what matters to the
// scheduling core is that it can be cloned (fork), have its return
// register overwritten (fork's "return 0 in the child"), and be
// snapshotted/restored byte-for-byte (sig_alarm/sig_return).
type TrapFrame struct {
	Regs [32]uint64
	PC   uint64
}

// register index conventions borrowed from the RISC-V calling convention
// the source kernel targets: a0 is x10, the first argument/return register.
const regA0 = 10

// A0 returns the frame's return-value/first-argument register.
func (t *TrapFrame) A0() uint64 { return t.Regs[regA0] }

// SetA0 sets the frame's return-value/first-argument register.
func (t *TrapFrame) SetA0(v uint64) { t.Regs[regA0] = v }

// Clone returns a deep (byte-for-byte) copy of t.
func (t *TrapFrame) Clone() *TrapFrame {
	c := *t
	return &c
}

// AddressSpace stands in for a process's owned page table. The page
// allocator and page-table primitives it would delegate to are out of
// scope (spec.md §1); AddressSpace keeps just enough state — a size and a
// set of copy-on-write page addresses — to make fork's page-by-page copy
// and the COW fault handler (spec.md §4.8) meaningful and testable.
type AddressSpace struct {
	Size uint64
	// COWPages maps a page-aligned virtual address to whether it currently
	// carries the COW marker bit (shared, read-only, materialize-on-write).
	COWPages map[uint64]bool
}

func newAddressSpace() *AddressSpace {
	return &AddressSpace{COWPages: map[uint64]bool{}}
}

// clone returns a copy of the address space, as fork's uvmcopy would
// produce: identical size, and every page marked COW in the parent and
// child both (first write to either materializes a private copy).
func (a *AddressSpace) clone() *AddressSpace {
	c := &AddressSpace{Size: a.Size, COWPages: make(map[uint64]bool, len(a.COWPages))}
	for pg := range a.COWPages {
		c.COWPages[pg] = true
	}
	return c
}

// FileHandle stands in for an open file reference from the external file
// layer (spec.md §1, explicitly out of scope). It carries only a name;
// it has no close hook.
type FileHandle struct {
	Name string
}

// INodeHandle stands in for a reference to a filesystem inode (e.g. a
// process's current working directory), also external to this core.
type INodeHandle struct {
	Path string
}
