package policy

import (
	"testing"

	"github.com/arctir/kcore/kernel"
)

func TestFCFSPicksEarliestCreationTime(t *testing.T) {
	f := newFCFS()
	k := newTestKernel(t, f)
	cpu := k.ControlCPU()

	first, err := k.Table().AllocProc(cpu, 5)
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	first.State = kernel.StateRunnable
	first.Unlock(cpu)

	second, err := k.Table().AllocProc(cpu, 1)
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	second.State = kernel.StateRunnable
	second.Unlock(cpu)

	picked := f.PickNext(k.Table(), cpu, 10)
	if picked == nil {
		t.Fatal("expected a candidate, got nil")
	}
	if picked.Index() != second.Index() {
		t.Fatalf("expected the earlier-created process to be picked, got index %d want %d", picked.Index(), second.Index())
	}
}

func TestFCFSNeverPreempts(t *testing.T) {
	f := newFCFS()
	if f.Preempts() {
		t.Fatal("fcfs must not preempt")
	}
	if f.Quantum(nil) != 0 {
		t.Fatalf("expected zero quantum, got %d", f.Quantum(nil))
	}
}
