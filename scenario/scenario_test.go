package scenario

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/arctir/kcore/kernel"
	"github.com/arctir/kcore/kernel/policy"
	"github.com/arctir/kcore/syscall"
)

func TestParsePack(t *testing.T) {
	data := []byte(`{"programs":[{"name":"p1","steps":[{"kind":"spin","ticks":5},{"kind":"exit"}]}]}`)
	pack, err := ParsePack(data)
	if err != nil {
		t.Fatalf("ParsePack: %s", err)
	}
	if len(pack.Programs) != 1 {
		t.Fatalf("expected 1 program, got %d", len(pack.Programs))
	}
	if pack.Programs[0].Name != "p1" {
		t.Fatalf("unexpected program name %q", pack.Programs[0].Name)
	}
	if len(pack.Programs[0].Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(pack.Programs[0].Steps))
	}
}

func TestParsePackInvalidJSON(t *testing.T) {
	if _, err := ParsePack([]byte("not json")); err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}

func TestHeavyHasTwentyRoundsOfThreeForksAndAWait(t *testing.T) {
	prog := Heavy()
	forkCount, waitCount := 0, 0
	for _, s := range prog.Steps {
		switch s.Kind {
		case StepFork:
			forkCount++
		case StepWait:
			waitCount++
		}
	}
	if forkCount != 60 {
		t.Errorf("expected 60 forks (20 rounds x 3), got %d", forkCount)
	}
	if waitCount != 20 {
		t.Errorf("expected 20 waits, got %d", waitCount)
	}
}

func TestProgramWorkloadRunsToExit(t *testing.T) {
	p, err := policy.New(policy.RoundRobin)
	if err != nil {
		t.Fatalf("policy.New: %s", err)
	}
	k := kernel.NewKernel(kernel.Config{NumCPU: 2, Policy: p, TickInterval: time.Millisecond})
	tbl := syscall.NewTable(k, zerolog.Nop())

	prog := &Program{
		Name: "small",
		Steps: []Step{
			{Kind: StepSetTickets, Tickets: 3},
			{Kind: StepSpin, Ticks: 2},
			{Kind: StepExit, Status: 0},
		},
	}

	if _, err := k.Boot(prog.Workload(tbl)); err != nil {
		t.Fatalf("boot: %s", err)
	}
	defer k.Stop()

	// the init process should reach its exit step and become a zombie;
	// poll briefly rather than depending on an exact tick count.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		slots := k.Table().Slots()
		p0 := slots[0]
		p0.Lock(k.ControlCPU())
		state := p0.State
		p0.Unlock(k.ControlCPU())
		if state == kernel.StateZombie {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("init process never reached ZOMBIE after running its program")
}
