package kernel

import (
	"bytes"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
)

// mlfqPolicyName mirrors policy.MLFQ's value; kernel cannot import the
// policy package (policy already imports kernel), so ProcDump compares
// against the name string directly rather than the constant.
const mlfqPolicyName = "mlfq"

// ProcDump renders the process table as a table, one row per USED-or-later
// slot, mirroring the source kernel's procdump() debug aid (invoked from
// the console on ^P). It acquires and releases each slot's lock in turn
// while reading it, never holding more than one at a time. The column
// layout depends on the active policy (spec.md §6): MLFQ exposes its
// queue-level bookkeeping, every other policy reports run/sleep time.
func (k *Kernel) ProcDump(cpu *Cpu) string {
	var buf bytes.Buffer
	tw := tablewriter.NewWriter(&buf)
	tw.SetAutoWrapText(false)

	mlfq := k.PolicyName() == mlfqPolicyName
	if mlfq {
		tw.SetHeader([]string{"PID", "STATE", "QUEUE", "TIMERANINQUEUE", "WAITTIME", "LASTSCHEDULED", "NAME"})
	} else {
		tw.SetHeader([]string{"PID", "STATE", "TIMERUN", "TIMESLEPT", "NAME"})
	}

	now := k.clock.Now()
	for _, p := range k.table.Slots() {
		p.Lock(cpu)
		if p.State != StateUnused {
			if mlfq {
				waitTime := now - p.EntryTime - p.TimeRanInQueue
				tw.Append([]string{
					fmt.Sprintf("%d", p.Pid),
					p.State.String(),
					fmt.Sprintf("%d", p.Queue),
					fmt.Sprintf("%d", p.TimeRanInQueue),
					fmt.Sprintf("%d", waitTime),
					fmt.Sprintf("%d", p.LastScheduled),
					p.Name,
				})
			} else {
				tw.Append([]string{
					fmt.Sprintf("%d", p.Pid),
					p.State.String(),
					fmt.Sprintf("%d", p.TimeRun),
					fmt.Sprintf("%d", p.TimeSlept),
					p.Name,
				})
			}
		}
		p.Unlock(cpu)
	}
	tw.Render()
	return buf.String()
}

// ProcDumpVerbose renders a deep structural dump of every USED-or-later
// slot, including the bookkeeping fields ProcDump's table omits. It is
// the "-v" counterpart CLI users reach for when the summary table isn't
// enough to explain a scheduling decision.
func (k *Kernel) ProcDumpVerbose(cpu *Cpu) string {
	var out []string
	for _, p := range k.table.Slots() {
		p.Lock(cpu)
		if p.State != StateUnused {
			snapshot := *p
			snapshot.lock = nil // spew would otherwise walk into the mutex internals
			out = append(out, spew.Sdump(snapshot))
		}
		p.Unlock(cpu)
	}
	var buf bytes.Buffer
	for _, s := range out {
		buf.WriteString(s)
	}
	return buf.String()
}
