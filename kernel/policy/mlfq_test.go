package policy

import (
	"testing"
	"time"

	"github.com/arctir/kcore/kernel"
)

// newTestKernel builds an unbooted kernel so its process table can be
// populated and inspected directly without a live scheduler loop racing
// the test.
func newTestKernel(t *testing.T, p kernel.Policy) *kernel.Kernel {
	t.Helper()
	return kernel.NewKernel(kernel.Config{NumCPU: 1, Policy: p, TickInterval: time.Millisecond})
}

// seedQueues allocates one RUNNABLE process per entry in queues, placing
// it at that MLFQ level.
func seedQueues(t *testing.T, k *kernel.Kernel, queues ...int) {
	t.Helper()
	cpu := k.ControlCPU()
	for i, q := range queues {
		p, err := k.Table().AllocProc(cpu, 0)
		if err != nil {
			t.Fatalf("alloc proc %d: %s", i, err)
		}
		p.State = kernel.StateRunnable
		p.Queue = q
		p.EntryTime = 0
		p.Unlock(cpu)
	}
}

func TestMLFQPicksHighestNonEmptyQueueFirst(t *testing.T) {
	m := newMLFQ()
	k := newTestKernel(t, m)
	seedQueues(t, k, 4, 2, 0, 4)

	picked := m.PickNext(k.Table(), k.ControlCPU(), 0)
	if picked == nil {
		t.Fatal("expected a candidate, got nil")
	}
	if picked.Queue != 0 {
		t.Fatalf("expected the queue-0 process to be picked first, got queue %d", picked.Queue)
	}
}

func TestMLFQDoesNotFallThroughToQueue4WhenLowerQueueHasCandidate(t *testing.T) {
	m := newMLFQ()
	k := newTestKernel(t, m)
	// only queue 4 and queue 2 are populated; queue 2 must win even though
	// a naive scan that always also checks queue 4 could, if it failed to
	// stop early, let a queue-4 process race ahead.
	seedQueues(t, k, 4, 4, 2)

	picked := m.PickNext(k.Table(), k.ControlCPU(), 0)
	if picked == nil {
		t.Fatal("expected a candidate, got nil")
	}
	if picked.Queue != 2 {
		t.Fatalf("expected queue-2 process to be picked over queue-4 candidates, got queue %d", picked.Queue)
	}
}

func TestMLFQFallsBackToQueue4WhenNoHigherQueueHasCandidates(t *testing.T) {
	m := newMLFQ()
	k := newTestKernel(t, m)
	seedQueues(t, k, 4, 4)

	picked := m.PickNext(k.Table(), k.ControlCPU(), 0)
	if picked == nil {
		t.Fatal("expected a queue-4 candidate, got nil")
	}
	if picked.Queue != 4 {
		t.Fatalf("expected queue 4, got %d", picked.Queue)
	}
}

func TestMLFQPicksSmallestEntryTimeWithinQueue(t *testing.T) {
	m := newMLFQ()
	k := newTestKernel(t, m)
	seedQueues(t, k, 1, 1, 1)
	cpu := k.ControlCPU()
	slots := k.Table().Slots()

	slots[0].Lock(cpu)
	slots[0].EntryTime = 30
	slots[0].Unlock(cpu)
	slots[1].Lock(cpu)
	slots[1].EntryTime = 10
	slots[1].Unlock(cpu)
	slots[2].Lock(cpu)
	slots[2].EntryTime = 20
	slots[2].Unlock(cpu)

	picked := m.PickNext(k.Table(), cpu, 30)
	if picked == nil {
		t.Fatal("expected a candidate, got nil")
	}
	if picked.Index() != slots[1].Index() {
		t.Fatalf("expected the earliest-entry slot %d to be picked, got %d", slots[1].Index(), picked.Index())
	}
}

func TestMLFQAgingSubtractsTimeAlreadyRun(t *testing.T) {
	m := newMLFQ()
	k := newTestKernel(t, m)
	seedQueues(t, k, 1)
	cpu := k.ControlCPU()
	p := k.Table().Slots()[0]

	// p has been in queue 1 for kernel.MLFQAgingLimit[1] ticks, but nearly
	// all of that was time spent running, not waiting, so it must not age.
	p.Lock(cpu)
	p.EntryTime = 0
	p.TimeRanInQueue = kernel.MLFQAgingLimit[1] - 1
	p.Unlock(cpu)

	m.PickNext(k.Table(), cpu, kernel.MLFQAgingLimit[1])
	if p.Queue != 1 {
		t.Fatalf("expected no promotion while actual wait time is under the aging limit, got queue %d", p.Queue)
	}

	p.Lock(cpu)
	p.EntryTime = 0
	p.TimeRanInQueue = 0
	p.Unlock(cpu)

	m.PickNext(k.Table(), cpu, kernel.MLFQAgingLimit[1])
	if p.Queue != 0 {
		t.Fatalf("expected promotion once full wait time reaches the aging limit, got queue %d", p.Queue)
	}
}

func TestMLFQOnPreemptDemotesOneLevel(t *testing.T) {
	m := newMLFQ()
	k := newTestKernel(t, m)
	seedQueues(t, k, 0)
	p := k.Table().Slots()[0]

	m.OnPreempt(p, 10)
	if p.Queue != 1 {
		t.Fatalf("expected demotion to queue 1, got %d", p.Queue)
	}
}

func TestMLFQOnPreemptCapsAtLowestQueue(t *testing.T) {
	m := newMLFQ()
	k := newTestKernel(t, m)
	seedQueues(t, k, kernel.MLFQLevels-1)
	p := k.Table().Slots()[0]

	m.OnPreempt(p, 10)
	if p.Queue != kernel.MLFQLevels-1 {
		t.Fatalf("expected queue to stay capped at %d, got %d", kernel.MLFQLevels-1, p.Queue)
	}
}

func TestDynamicPriorityClamps(t *testing.T) {
	cases := []struct{ priority, niceness, want int }{
		{priority: 60, niceness: 5, want: 60},
		{priority: 0, niceness: 10, want: 0},
		{priority: 100, niceness: 0, want: 100},
	}
	for _, c := range cases {
		if got := dynamicPriority(c.priority, c.niceness); got != c.want {
			t.Errorf("dynamicPriority(%d, %d) = %d, want %d", c.priority, c.niceness, got, c.want)
		}
	}
}
