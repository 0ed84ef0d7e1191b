package policy

import "testing"

func TestNewConstructsEveryNamedPolicy(t *testing.T) {
	names := []string{RoundRobin, FCFS, Lottery, PriorityBased, MLFQ}
	for _, name := range names {
		p, err := New(name)
		if err != nil {
			t.Errorf("New(%q): %s", name, err)
			continue
		}
		if p.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, p.Name())
		}
	}
}

func TestNewRejectsUnknownPolicy(t *testing.T) {
	if _, err := New("nonsense"); err == nil {
		t.Fatal("expected an error for an unknown policy name")
	}
}
