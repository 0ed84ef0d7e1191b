package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/arctir/kcore/kernel"
	"github.com/arctir/kcore/syscall"
)

// StepKind names one action a Program step performs. The set mirrors
// what heavy.c, setpriority.c, settickets.c and strace.c each do:
// spin/sleep/fork busy-work, a priority or ticket change, a trace mask,
// waiting on children, and exiting.
type StepKind string

const (
	StepSpin        StepKind = "spin"
	StepSleep       StepKind = "sleep"
	StepFork        StepKind = "fork"
	StepSetPriority StepKind = "set_priority"
	StepSetTickets  StepKind = "set_tickets"
	StepTrace       StepKind = "trace"
	StepWait        StepKind = "wait"
	StepExit        StepKind = "exit"
)

// Step is one instruction in a Program. Only the fields relevant to Kind
// are consulted; the rest are ignored, the same way a C union's unused
// members would be.
type Step struct {
	Kind     StepKind `json:"kind"`
	Ticks    uint64   `json:"ticks,omitempty"`
	Priority int      `json:"priority,omitempty"`
	Tickets  int      `json:"tickets,omitempty"`
	Mask     uint     `json:"mask,omitempty"`
	Status   int      `json:"status,omitempty"`
	Child    *Program `json:"child,omitempty"`
}

// Program is a named, ordered sequence of Steps: the scenario-pack
// equivalent of one user/*.c test binary.
type Program struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// Pack is a named collection of Programs loaded from a single pack file
// (spec.md SUPPLEMENTED FEATURES).
type Pack struct {
	Programs []Program `json:"programs"`
}

// ParsePack decodes a pack file's JSON body.
func ParsePack(data []byte) (*Pack, error) {
	var pack Pack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("scenario: parsing pack: %s", err)
	}
	return &pack, nil
}

// Workload compiles prog into a kernel.Workload that drives itself
// through each step in order via tbl, forking a child Workload for any
// nested StepFork.Child exactly as heavy.c's "fork fork fork then spin
// or sleep" shape does, just expressed declaratively instead of as
// straight-line C.
func (prog *Program) Workload(tbl *syscall.Table) kernel.Workload {
	return func(k *kernel.Kernel, p *kernel.Proc) {
		for _, step := range prog.Steps {
			switch step.Kind {
			case StepSpin:
				k.Spin(p, kernel.Tick(step.Ticks))
			case StepSleep:
				tbl.Sleep(p, kernel.Tick(step.Ticks))
			case StepFork:
				var child kernel.Workload
				if step.Child != nil {
					child = step.Child.Workload(tbl)
				}
				if _, err := tbl.Fork(p, child); err != nil {
					return
				}
			case StepSetPriority:
				if _, err := tbl.SetPriority(p, p.Pid, step.Priority); err != nil {
					return
				}
			case StepSetTickets:
				if err := tbl.SetTickets(p, p.Pid, step.Tickets); err != nil {
					return
				}
			case StepTrace:
				if err := tbl.Trace(p, step.Mask); err != nil {
					return
				}
			case StepWait:
				if _, _, err := tbl.Wait(p); err != nil {
					return
				}
			case StepExit:
				tbl.Exit(p, step.Status)
				return
			}
		}
	}
}

// Heavy reconstructs heavy.c as a Program: 20 rounds, each forking three
// children that either sleep (odd rounds) or spin (even rounds) and then
// exit; the parent waits once per round and exits after the last round.
func Heavy() *Program {
	prog := &Program{Name: "heavy"}
	for i := 0; i < 20; i++ {
		work := Step{Kind: StepSpin, Ticks: 200}
		if i%2 == 1 {
			work = Step{Kind: StepSleep, Ticks: 20}
		}
		prog.Steps = append(prog.Steps,
			Step{Kind: StepFork, Child: &Program{Name: fmt.Sprintf("heavy-%d-a", i), Steps: []Step{work, {Kind: StepExit}}}},
			Step{Kind: StepFork, Child: &Program{Name: fmt.Sprintf("heavy-%d-b", i), Steps: []Step{work, {Kind: StepExit}}}},
			Step{Kind: StepFork, Child: &Program{Name: fmt.Sprintf("heavy-%d-c", i), Steps: []Step{work, {Kind: StepExit}}}},
			Step{Kind: StepWait},
		)
	}
	prog.Steps = append(prog.Steps, Step{Kind: StepExit})
	return prog
}
