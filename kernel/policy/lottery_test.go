package policy

import (
	"testing"

	"github.com/arctir/kcore/kernel"
)

func TestLotteryOnlyPicksRunnable(t *testing.T) {
	l := newLottery()
	k := newTestKernel(t, l)
	cpu := k.ControlCPU()

	p, err := k.Table().AllocProc(cpu, 0)
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	p.State = kernel.StateSleeping
	p.Tickets = 10
	p.Unlock(cpu)

	if picked := l.PickNext(k.Table(), cpu, 1); picked != nil {
		t.Fatalf("expected no candidate while the only process sleeps, got %v", picked)
	}
}

func TestLotteryFavorsMoreTickets(t *testing.T) {
	l := newLottery()
	k := newTestKernel(t, l)
	cpu := k.ControlCPU()

	low, err := k.Table().AllocProc(cpu, 0)
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	low.State = kernel.StateRunnable
	low.Tickets = 1
	low.Unlock(cpu)

	high, err := k.Table().AllocProc(cpu, 0)
	if err != nil {
		t.Fatalf("alloc: %s", err)
	}
	high.State = kernel.StateRunnable
	high.Tickets = 99
	high.Unlock(cpu)

	wins := map[int]int{}
	for tick := kernel.Tick(1); tick <= 200; tick++ {
		picked := l.PickNext(k.Table(), cpu, tick)
		if picked == nil {
			t.Fatalf("tick %d: expected a candidate, got nil", tick)
		}
		wins[picked.Index()]++
	}
	if wins[high.Index()] <= wins[low.Index()] {
		t.Fatalf("expected the high-ticket process to win more often over 200 draws: low=%d high=%d", wins[low.Index()], wins[high.Index()])
	}
}
