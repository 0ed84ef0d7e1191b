package kernel

import (
	"testing"
	"time"
)

func TestSigAlarmRejectsNonPositiveInterval(t *testing.T) {
	k := newTestKernel(t)
	done := make(chan struct{})
	workload := func(kk *Kernel, p *Proc) {
		if err := kk.SigAlarm(p, 0, 0); err != ErrInvalidInterval {
			t.Errorf("expected ErrInvalidInterval, got %v", err)
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

func TestSpinFiresArmedAlarm(t *testing.T) {
	k := newTestKernel(t)
	done := make(chan struct{})

	workload := func(kk *Kernel, p *Proc) {
		if err := kk.SigAlarm(p, 1, 0xdead); err != nil {
			t.Errorf("sigalarm: %s", err)
		}
		kk.Spin(p, 5)
		if !p.AlarmRunning {
			t.Errorf("expected the alarm to have fired and left AlarmRunning set")
		}
		if p.BackupTrapFrame == nil {
			t.Errorf("expected a backed-up trap frame while the alarm handler is running")
		}
		kk.SigReturn(p)
		if p.AlarmRunning {
			t.Errorf("expected SigReturn to clear AlarmRunning")
		}
		if p.BackupTrapFrame != nil {
			t.Errorf("expected SigReturn to clear the backed-up trap frame")
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

func TestPageFaultOnlyHandlesCOWPages(t *testing.T) {
	k := newTestKernel(t)
	done := make(chan struct{})

	workload := func(kk *Kernel, p *Proc) {
		if err := kk.PageFault(p, 0x1000); err != ErrAddressSpace {
			t.Errorf("expected ErrAddressSpace for a non-COW page, got %v", err)
		}
		p.AddrSpace.COWPages[0x1000] = true
		if err := kk.PageFault(p, 0x1000); err != nil {
			t.Errorf("expected the COW page to be handled, got %s", err)
		}
		if p.AddrSpace.COWPages[0x1000] {
			t.Errorf("expected the COW marker to be cleared after the fault")
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
