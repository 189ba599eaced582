// Package ffmpeg runs encoder subprocesses: it spawns one command at a time
// per call, streams machine-readable progress back to the caller, supports
// cooperative cancellation, and tracks every live subprocess in a
// process-wide registry so the host application can force shutdown.
package ffmpeg

import (
	"os"
	"sync"
	"syscall"
	"time"

	"go.uber.org/multierr"
)

// terminateGrace is how long TerminateAll waits after the graceful signal
// before escalating to a forced kill.
const terminateGrace = 3 * time.Second

// Registry is the process-wide table of running encoder subprocesses. The
// runner registers each process right after spawn and unregisters it right
// after reap; the host's shutdown sequence calls TerminateAll to clean up
// whatever is still alive, regardless of which call site spawned it.
//
// All access goes through one mutex; it is the only piece of state in the
// pipeline mutated from more than one goroutine.
type Registry struct {
	mu    sync.Mutex
	procs map[int]*os.Process
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{procs: make(map[int]*os.Process)}
}

// Register records a spawned process.
func (r *Registry) Register(p *os.Process) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.procs[p.Pid] = p
}

// Unregister removes a process after it has been reaped.
func (r *Registry) Unregister(pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.procs, pid)
}

// Len reports how many processes are currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}

// TerminateAll stops every registered process: graceful signal first, then a
// forced kill for anything still alive after the grace period. The entry
// snapshot is taken under the lock and the signalling happens outside it, so
// runners can keep unregistering concurrently.
func (r *Registry) TerminateAll() error {
	r.mu.Lock()
	snapshot := make([]*os.Process, 0, len(r.procs))
	for _, p := range r.procs {
		snapshot = append(snapshot, p)
	}
	r.mu.Unlock()

	var errs error
	for _, p := range snapshot {
		if !alive(p) {
			r.Unregister(p.Pid)
			continue
		}
		_ = terminate(p)

		deadline := time.Now().Add(terminateGrace)
		for alive(p) && time.Now().Before(deadline) {
			time.Sleep(50 * time.Millisecond)
		}
		if alive(p) {
			errs = multierr.Append(errs, p.Kill())
		}
		r.Unregister(p.Pid)
	}
	return errs
}

// terminate requests a graceful stop.
func terminate(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}

// alive reports whether the process still accepts signals.
func alive(p *os.Process) bool {
	return p.Signal(syscall.Signal(0)) == nil
}
