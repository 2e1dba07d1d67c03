package kernel

import "fmt"

// State describes where a thread is in its lifecycle.
type State uint8

const (
	StateReady State = iota
	StateRunning
	StateBlocked
	StateSleeping
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateBlocked:
		return "blocked"
	case StateSleeping:
		return "sleeping"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// wake is the hand-off slot a waker fills before readying a thread.
//
// ok distinguishes a granted wakeup (unit/item/ownership handed over)
// from a timeout expiry. item carries the payload for queue primitives.
type wake struct {
	ok      bool
	aborted bool
	item    any
}

// ThreadOptions carries optional spawn parameters.
type ThreadOptions struct {
	// Name identifies the thread in reports. Defaults to "thread-<id>".
	Name string

	// StackBytes is advisory: goroutine stacks are managed by the Go
	// runtime, so the value is recorded but does not allocate.
	StackBytes int
}

// Thread is a unit of execution owned by a Kernel.
//
// A thread with negative priority is cooperative: it runs until it
// voluntarily blocks, sleeps or yields. A thread with priority >= 0 is
// preemptible. Numerically lower priority values take precedence.
type Thread struct {
	k    *Kernel
	id   int32
	name string
	prio int

	stackBytes int

	state State

	// gate grants the virtual CPU. The dispatcher sends one token when
	// the thread is chosen to run; the thread's goroutine parks on it.
	gate chan struct{}

	// wait linkage, valid while blocked or sleeping.
	wq       *waitQueue
	pendItem any
	deadline uint64
	timed    bool

	wake wake
}

// ID returns the thread's kernel-unique identifier.
func (t *Thread) ID() int32 { return t.id }

// Name returns the thread's display name.
func (t *Thread) Name() string { return t.name }

// Priority returns the priority the thread was spawned with.
func (t *Thread) Priority() int { return t.prio }

// State returns the thread's current lifecycle state.
func (t *Thread) State() State {
	t.k.mu.Lock()
	defer t.k.mu.Unlock()
	return t.state
}

func (t *Thread) String() string {
	return fmt.Sprintf("%s(#%d prio %d)", t.name, t.id, t.prio)
}

func (t *Thread) cooperative() bool { return t.prio < 0 }
