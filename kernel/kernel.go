package kernel

import (
	"fmt"
	"sync"
)

// Kernel is a single-CPU priority scheduler plus the factory for the
// synchronization primitives that block on it.
//
// Each thread is a goroutine gated by a one-slot channel; exactly one
// thread holds the virtual CPU at any time. All kernel state is guarded
// by one lock, held only for short critical sections and never across a
// suspension point.
type Kernel struct {
	mu sync.Mutex

	ready   readyQueue
	running *Thread

	threads int // live (not yet terminated) threads
	nextID  int32

	started      bool
	offloadDepth int

	clock clock

	done chan struct{}
}

// New creates an empty kernel. Spawn threads, then call Run.
func New() *Kernel {
	return &Kernel{done: make(chan struct{})}
}

// Spawn creates a thread in the Ready state. Negative priorities mark
// cooperative threads; equal priorities are scheduled FIFO by spawn
// order. Spawn may be called before Run or from a running thread; in
// the latter case the caller is preempted if the new thread takes
// precedence.
func (k *Kernel) Spawn(prio int, entry func(*Context), opts ...ThreadOptions) *Thread {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.nextID++
	t := &Thread{
		k:     k,
		id:    k.nextID,
		prio:  prio,
		state: StateReady,
		gate:  make(chan struct{}, 1),
	}
	if len(opts) > 0 {
		t.name = opts[0].Name
		t.stackBytes = opts[0].StackBytes
	}
	if t.name == "" {
		t.name = fmt.Sprintf("thread-%d", t.id)
	}
	k.threads++
	k.ready.push(t)
	go k.runThread(t, entry)
	k.maybePreempt()
	return t
}

// Abort removes a thread from the ready set or from whatever wait
// queue it is blocked on, without granting any resource it was waiting
// for. The victim's goroutine is scheduled one final time so that its
// deferred calls run; its pending wait, if any, resolves by raising
// ErrAborted through the stack. Aborting the calling thread terminates
// it immediately. Aborting an already-terminated thread is a no-op.
func (k *Kernel) Abort(t *Thread) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if t.state == StateAborted || t.wake.aborted {
		return
	}
	if t == k.running {
		t.wake = wake{aborted: true}
		panic(ErrAborted)
	}
	switch t.state {
	case StateBlocked:
		if t.wq != nil {
			t.wq.remove(t)
		}
		k.clock.cancel(t)
		t.pendItem = nil
		t.wake = wake{aborted: true}
		k.readyLocked(t)
	case StateSleeping:
		k.clock.cancel(t)
		t.wake = wake{aborted: true}
		k.readyLocked(t)
	case StateReady:
		// Stays queued; the unwind runs in place of the entry when the
		// thread is next dispatched.
		t.wake = wake{aborted: true}
	}
	k.maybePreempt()
}

// Run dispatches the highest-precedence ready thread and blocks the
// calling goroutine until every thread has terminated. It starts the
// tick driver for the duration of the run. Run returns immediately if
// no thread was spawned; it may be called at most once.
func (k *Kernel) Run() {
	k.mu.Lock()
	if k.started {
		k.mu.Unlock()
		panic("kernel: Run called twice")
	}
	if k.threads == 0 {
		k.mu.Unlock()
		return
	}
	k.started = true
	go k.tickLoop()
	k.switchOut()
	k.mu.Unlock()
	<-k.done
}

// Uptime returns the number of ticks elapsed since Run started.
func (k *Kernel) Uptime() uint64 { return k.clock.ticks.Load() }

// runThread is the top of every thread goroutine.
func (k *Kernel) runThread(t *Thread, entry func(*Context)) {
	// First dispatch. The sender set t.state/t.wake under the kernel
	// lock before signalling, and the channel receive orders those
	// writes before the reads below.
	<-t.gate
	defer k.threadEpilogue(t)
	if t.wake.aborted {
		panic(ErrAborted)
	}
	entry(&Context{k: k, t: t})
}

// threadEpilogue retires a thread whose entry returned or whose stack
// unwound via Abort. Any other panic is reported and re-raised.
func (k *Kernel) threadEpilogue(t *Thread) {
	if r := recover(); r != nil && r != ErrAborted {
		reportPanic(t, r)
		panic(r)
	}
	k.mu.Lock()
	t.state = StateAborted
	t.wake = wake{}
	k.threads--
	if k.threads == 0 {
		k.running = nil
		close(k.done)
		k.mu.Unlock()
		return
	}
	if k.running == t {
		k.switchOut()
	}
	k.mu.Unlock()
}

// switchOut hands the virtual CPU to the best ready thread, or idles
// the CPU when none is runnable. The caller holds the kernel lock and
// has already moved the outgoing thread (if any) into its new state.
func (k *Kernel) switchOut() {
	next := k.ready.pop()
	if next == nil {
		k.running = nil
		return
	}
	next.state = StateRunning
	k.running = next
	next.gate <- struct{}{}
}

// park blocks the calling thread until it is granted the CPU again.
// Called with the kernel lock held; returns with it held. If the
// thread was aborted while parked, park unwinds instead of returning;
// the abort panic is raised with the lock held so that the single
// deferred unlock pending in the public operation releases it.
func (k *Kernel) park(t *Thread) {
	k.mu.Unlock()
	<-t.gate
	k.mu.Lock()
	if t.wake.aborted {
		panic(ErrAborted)
	}
}

// readyLocked marks a thread runnable. When the CPU is idle (a tick
// handler woke a sleeper with nothing running) the thread is dispatched
// at once; otherwise it queues behind its priority class and any
// preemption happens at the caller's next scheduling point.
func (k *Kernel) readyLocked(t *Thread) {
	t.state = StateReady
	k.ready.push(t)
	if k.started && k.running == nil {
		k.switchOut()
	}
}

// readyWake fills a thread's hand-off slot and readies it.
func (k *Kernel) readyWake(t *Thread, item any) {
	t.wake = wake{ok: true, item: item}
	k.readyLocked(t)
}

// maybePreempt yields the CPU when a strictly better-priority thread
// is ready and the running thread is preemptible. Cooperative threads
// and offload handlers are never preempted. Called with the kernel
// lock held at the end of every operation that may have readied a
// thread; returns with the lock held.
func (k *Kernel) maybePreempt() {
	cur := k.running
	if cur == nil || k.offloadDepth > 0 || cur.cooperative() {
		return
	}
	next := k.ready.peek()
	if next == nil || next.prio >= cur.prio {
		return
	}
	cur.state = StateReady
	k.ready.push(cur)
	k.switchOut()
	k.park(cur)
}

// yield moves the running thread behind its priority class.
func (k *Kernel) yield() {
	k.mu.Lock()
	defer k.mu.Unlock()
	cur := k.mustRunning("yield")
	cur.state = StateReady
	k.ready.push(cur)
	k.switchOut()
	k.park(cur)
}

// pend blocks the running thread on a wait queue until a waker hands
// it a payload, the timeout elapses, or the thread is aborted. Called
// with the kernel lock held; returns with it held. The Immediate case
// is the caller's to handle: pend always suspends.
func (k *Kernel) pend(q *waitQueue, to Timeout) (any, error) {
	cur := k.mustRunning("blocking wait")
	cur.wake = wake{}
	q.append(cur)
	cur.state = StateBlocked
	if n, finite := to.ticks(); finite {
		k.clock.arm(cur, n)
	}
	k.switchOut()
	k.park(cur)
	w := cur.wake
	cur.wake = wake{}
	if !w.ok {
		return nil, ErrTimedOut
	}
	return w.item, nil
}

// wakeOne pops the longest-waiting thread off a wait queue and hands
// it a payload. Reports false when the queue was empty.
func (k *Kernel) wakeOne(q *waitQueue, item any) bool {
	t := q.popOldest()
	if t == nil {
		return false
	}
	k.clock.cancel(t)
	k.readyWake(t, item)
	return true
}

// mustRunning asserts the caller is executing in thread context
// outside an offload handler. Lock held; panics propagate through the
// caller's deferred unlock.
func (k *Kernel) mustRunning(op string) *Thread {
	if k.offloadDepth > 0 {
		panic("kernel: " + op + " in offload context")
	}
	return k.currentThread(op)
}

// currentThread returns the thread whose execution the caller borrows.
// Offload handlers pass: they run on the borrowed thread. Lock held.
func (k *Kernel) currentThread(op string) *Thread {
	cur := k.running
	if cur == nil {
		panic("kernel: " + op + " outside thread context")
	}
	return cur
}
