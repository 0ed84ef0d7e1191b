// Package ui serves a small live dashboard over a running kernel.Kernel's
// process table, replacing the source CLI's read-only /proc snapshot
// viewer with a view onto the simulation's own in-memory state.
package ui

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arctir/kcore/kernel"
)

const (
	port              = ":8080"
	refreshPath       = "/refresh"
	processesPath     = "/process/"
	processesTreePath = "/tree/"
)

// ProcView is a read-only snapshot of one Proc, copied out from under its
// lock so templates can render it without holding the kernel's locks for
// the lifetime of an HTTP response.
type ProcView struct {
	Pid       int
	State     string
	Name      string
	Priority  int
	Niceness  int
	Tickets   int
	Queue     int
	TimeRun   kernel.Tick
	ParentPid int
}

type Data struct {
	LastRefresh time.Time
	Procs       map[int]ProcView
}

type DetailKV struct {
	Field string
	Value string
}

type UI struct {
	k           *kernel.Kernel
	cpu         *kernel.Cpu
	data        Data
	refreshLock sync.Mutex
}

// New binds a UI to a running kernel. cpu is the locking identity used
// for read-only table scans (the control CPU the caller's kernel uses
// for admin-style operations).
func New(k *kernel.Kernel, cpu *kernel.Cpu) *UI {
	return &UI{k: k, cpu: cpu}
}

func (ui *UI) RunUI() {
	http.HandleFunc("/", ui.handleAllProcesses)
	http.HandleFunc(refreshPath, ui.handleRefresh)
	http.HandleFunc(processesPath, ui.handleProcessDetails)
	http.HandleFunc(processesTreePath, ui.handleProcessTree)

	log.Printf("serving at %s", port)
	panic(http.ListenAndServe(port, nil))
}

func (ui *UI) snapshot() map[int]ProcView {
	views := map[int]ProcView{}
	for _, p := range ui.k.Table().Slots() {
		p.Lock(ui.cpu)
		if p.State != kernel.StateUnused {
			parentPid := 0
			if p.Parent != nil {
				parentPid = p.Parent.Pid
			}
			views[p.Pid] = ProcView{
				Pid:       p.Pid,
				State:     p.State.String(),
				Name:      p.Name,
				Priority:  p.Priority,
				Niceness:  p.Niceness,
				Tickets:   p.Tickets,
				Queue:     p.Queue,
				TimeRun:   p.TimeRun,
				ParentPid: parentPid,
			}
		}
		p.Unlock(ui.cpu)
	}
	return views
}

func (ui *UI) handleAllProcesses(w http.ResponseWriter, r *http.Request) {
	ui.refreshLock.Lock()
	defer ui.refreshLock.Unlock()
	ui.data = Data{LastRefresh: time.Now(), Procs: ui.snapshot()}

	t, err := createTemplate(allProcessesView)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, ui.data); err != nil {
		writeFailure(w, err)
	}
}

func (ui *UI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ui.refreshLock.Lock()
	ui.data = Data{LastRefresh: time.Now(), Procs: ui.snapshot()}
	ui.refreshLock.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (ui *UI) handleProcessDetails(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, processesPath))
	if err != nil {
		writeFailure(w, err)
		return
	}
	view, ok := ui.snapshot()[pid]
	if !ok {
		writeFailure(w, fmt.Errorf("process %d does not exist", pid))
		return
	}
	t, err := createTemplate(viewProcessDetails)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, view); err != nil {
		writeFailure(w, err)
	}
}

func (ui *UI) handleProcessTree(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, processesTreePath))
	if err != nil {
		writeFailure(w, err)
		return
	}
	lineage, err := ui.k.ResolveLineage(pid)
	if err != nil {
		writeFailure(w, err)
		return
	}
	views := ui.snapshot()
	hierarchy := make([]ProcView, 0, len(lineage))
	for i := len(lineage) - 1; i >= 0; i-- {
		if v, ok := views[lineage[i]]; ok {
			hierarchy = append(hierarchy, v)
		}
	}
	t, err := createTemplate(viewTreeDetails)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, hierarchy); err != nil {
		writeFailure(w, err)
	}
}

// getProcessDetails returns the key/value pairs to render for one
// ProcView, the same flattening the original viewer did for plib.Process
// via reflection, done here as a plain field-by-field list since
// ProcView has no nested OS-specific struct to walk.
func getProcessDetails(p ProcView) []DetailKV {
	return []DetailKV{
		{"Pid", fmt.Sprintf("%d", p.Pid)},
		{"State", p.State},
		{"Name", p.Name},
		{"Priority", fmt.Sprintf("%d", p.Priority)},
		{"Niceness", fmt.Sprintf("%d", p.Niceness)},
		{"Tickets", fmt.Sprintf("%d", p.Tickets)},
		{"Queue", fmt.Sprintf("%d", p.Queue)},
		{"TimeRun", fmt.Sprintf("%d", p.TimeRun)},
		{"ParentPid", fmt.Sprintf("%d", p.ParentPid)},
	}
}

// createTemplate returns a final template with your template (temp) specified
// and wrapped with the shared header and footer.
func createTemplate(temp string) (*template.Template, error) {
	t, err := template.New("response").
		Funcs(template.FuncMap{"pDeets": getProcessDetails}).
		Parse(uiHeader + temp + uiFooter)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func writeFailure(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	t, _ := createTemplate(errorView)
	t.Execute(w, err.Error())
}
