package policy

import "github.com/arctir/kcore/kernel"

// lottery draws a winning ticket number in [0, totalTickets) and
// dispatches whichever RUNNABLE process holds it (spec.md C7's LBS).
// Processes with more Tickets proportionally win more often; the RNG is
// reseeded from the tick count on every draw so repeated scheduler ticks
// don't all draw the same winner.
type lottery struct {
	rng *kernel.Rand
}

func newLottery() *lottery {
	return &lottery{rng: kernel.NewRand()}
}

func (l *lottery) Name() string                        { return Lottery }
func (l *lottery) Preempts() bool                       { return true }
func (l *lottery) Quantum(*kernel.Proc) kernel.Tick     { return 4 }
func (l *lottery) OnPreempt(*kernel.Proc, kernel.Tick) {}

func (l *lottery) PickNext(t *kernel.Table, cpu *kernel.Cpu, now kernel.Tick) *kernel.Proc {
	l.rng.Seed(uint64(now))

	slots := t.Slots()
	total := 0
	for _, p := range slots {
		p.Lock(cpu)
		if p.State == kernel.StateRunnable {
			total += p.Tickets
		}
		p.Unlock(cpu)
	}
	if total == 0 {
		return nil
	}

	winner := l.rng.Intn(total)
	run := 0
	for _, p := range slots {
		p.Lock(cpu)
		if p.State != kernel.StateRunnable {
			p.Unlock(cpu)
			continue
		}
		run += p.Tickets
		if winner < run {
			p.Unlock(cpu)
			return p
		}
		p.Unlock(cpu)
	}
	return nil
}
