package syscall

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/arctir/kcore/kernel"
	"github.com/arctir/kcore/kernel/policy"
)

func newTestKernel(t *testing.T) *kernel.Kernel {
	t.Helper()
	p, err := policy.New(policy.RoundRobin)
	if err != nil {
		t.Fatalf("policy.New: %s", err)
	}
	return kernel.NewKernel(kernel.Config{NumCPU: 2, Policy: p, TickInterval: time.Millisecond})
}

func TestNameKnownAndUnknown(t *testing.T) {
	if Name(SysFork) != "fork" {
		t.Fatalf("Name(SysFork) = %q", Name(SysFork))
	}
	if Name(0) != "unknown" {
		t.Fatalf("Name(0) = %q, want unknown", Name(0))
	}
}

func TestTableFork(t *testing.T) {
	k := newTestKernel(t)
	tbl := NewTable(k, zerolog.Nop())
	done := make(chan struct{})

	child := func(kk *kernel.Kernel, p *kernel.Proc) {
		tbl.Exit(p, 3)
	}
	parent := func(kk *kernel.Kernel, p *kernel.Proc) {
		pid, err := tbl.Fork(p, child)
		if err != nil {
			t.Errorf("fork: %s", err)
		}
		gotPid, status, err := tbl.Wait(p)
		if err != nil {
			t.Errorf("wait: %s", err)
		}
		if gotPid != pid {
			t.Errorf("expected to wait on the forked pid %d, got %d", pid, gotPid)
		}
		if status != 3 {
			t.Errorf("expected exit status 3, got %d", status)
		}
		close(done)
	}

	if _, err := k.Boot(parent); err != nil {
		t.Fatalf("boot: %s", err)
	}
	defer k.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

func TestTableTraceInvalidMask(t *testing.T) {
	k := newTestKernel(t)
	tbl := NewTable(k, zerolog.Nop())
	done := make(chan struct{})

	workload := func(kk *kernel.Kernel, p *kernel.Proc) {
		if err := tbl.Trace(p, 0); err != kernel.ErrInvalidTraceMask {
			t.Errorf("expected ErrInvalidTraceMask for mask 0, got %v", err)
		}
		if err := tbl.Trace(p, 1); err != kernel.ErrInvalidTraceMask {
			t.Errorf("expected ErrInvalidTraceMask for mask 1, got %v", err)
		}
		if err := tbl.Trace(p, 2); err != nil {
			t.Errorf("expected mask 2 to be accepted, got %s", err)
		}
		close(done)
	}

	if _, err := k.Boot(workload); err != nil {
		t.Fatalf("boot: %s", err)
	}
	defer k.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

func TestTableSbrk(t *testing.T) {
	k := newTestKernel(t)
	tbl := NewTable(k, zerolog.Nop())
	done := make(chan struct{})

	workload := func(kk *kernel.Kernel, p *kernel.Proc) {
		old, err := tbl.Sbrk(p, 4096)
		if err != nil {
			t.Errorf("sbrk grow: %s", err)
		}
		if old != 0 {
			t.Errorf("expected old break 0, got %d", old)
		}
		old, err = tbl.Sbrk(p, -8192)
		if err != kernel.ErrAddressSpace {
			t.Errorf("expected ErrAddressSpace shrinking below zero, got %v", err)
		}
		close(done)
		tbl.Exit(p, 0)
	}

	if _, err := k.Boot(workload); err != nil {
		t.Fatalf("boot: %s", err)
	}
	defer k.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

func TestTableUptime(t *testing.T) {
	k := newTestKernel(t)
	tbl := NewTable(k, zerolog.Nop())
	done := make(chan struct{})

	workload := func(kk *kernel.Kernel, p *kernel.Proc) {
		if tbl.Uptime(p) != kk.Now() {
			t.Errorf("expected uptime to reflect the kernel's current tick")
		}
		close(done)
		tbl.Exit(p, 0)
	}

	if _, err := k.Boot(workload); err != nil {
		t.Fatalf("boot: %s", err)
	}
	defer k.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

func TestTableGetpid(t *testing.T) {
	k := newTestKernel(t)
	tbl := NewTable(k, zerolog.Nop())
	done := make(chan struct{})

	workload := func(kk *kernel.Kernel, p *kernel.Proc) {
		if tbl.Getpid(p) != p.Pid {
			t.Errorf("Getpid mismatch")
		}
		close(done)
		tbl.Exit(p, 0)
	}

	init, err := k.Boot(workload)
	if err != nil {
		t.Fatalf("boot: %s", err)
	}
	defer k.Stop()
	_ = init

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}
