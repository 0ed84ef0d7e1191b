package policy

import (
	"testing"

	"github.com/arctir/kcore/kernel"
)

func TestPBSPicksLowestDynamicPriority(t *testing.T) {
	pb := newPBS()
	k := newTestKernel(t, pb)
	cpu := k.ControlCPU()

	high, err := k.Table().AllocProc(cpu, 0)
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	high.State = kernel.StateRunnable
	high.Priority = 80
	high.Niceness = 5
	high.Unlock(cpu)

	low, err := k.Table().AllocProc(cpu, 0)
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	low.State = kernel.StateRunnable
	low.Priority = 10
	low.Niceness = 5
	low.Unlock(cpu)

	picked := pb.PickNext(k.Table(), cpu, 0)
	if picked == nil {
		t.Fatal("expected a candidate, got nil")
	}
	if picked.Index() != low.Index() {
		t.Fatalf("expected the lower-DP process to be picked, got index %d want %d", picked.Index(), low.Index())
	}
}

func TestPBSTieBreaksByTimesScheduledThenCTime(t *testing.T) {
	pb := newPBS()
	k := newTestKernel(t, pb)
	cpu := k.ControlCPU()

	a, err := k.Table().AllocProc(cpu, 5)
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	a.State = kernel.StateRunnable
	a.Priority, a.Niceness = 60, 5
	a.TimesScheduled = 3
	a.Unlock(cpu)

	b, err := k.Table().AllocProc(cpu, 1)
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	b.State = kernel.StateRunnable
	b.Priority, b.Niceness = 60, 5
	b.TimesScheduled = 1
	b.Unlock(cpu)

	picked := pb.PickNext(k.Table(), cpu, 0)
	if picked == nil {
		t.Fatal("expected a candidate, got nil")
	}
	if picked.Index() != b.Index() {
		t.Fatalf("expected the process with fewer TimesScheduled to win the tie, got index %d want %d", picked.Index(), b.Index())
	}

	// equal TimesScheduled: the earlier CTime (b, 1 < 5) wins.
	a.Lock(cpu)
	a.TimesScheduled = 1
	a.Unlock(cpu)

	picked = pb.PickNext(k.Table(), cpu, 0)
	if picked == nil {
		t.Fatal("expected a candidate, got nil")
	}
	if picked.Index() != b.Index() {
		t.Fatalf("expected the process with the earlier CTime to win the tie, got index %d want %d", picked.Index(), b.Index())
	}
}
