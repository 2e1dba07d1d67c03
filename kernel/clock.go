package kernel

import (
	"sync/atomic"
	"time"
)

// clock is the kernel timebase: a monotonic tick counter plus the
// deadline-ordered queue of threads waiting on time (sleepers and
// timed waits share it). Guarded by the kernel lock except for the
// tick counter, which is read without it.
type clock struct {
	ticks  atomic.Uint64
	timers []*Thread
}

// arm schedules a thread for expiry n ticks from now. Threads with
// equal deadlines expire in arm order.
func (c *clock) arm(t *Thread, n uint64) {
	t.deadline = c.ticks.Load() + n
	t.timed = true
	i := 0
	for i < len(c.timers) && c.timers[i].deadline <= t.deadline {
		i++
	}
	c.timers = append(c.timers, nil)
	copy(c.timers[i+1:], c.timers[i:])
	c.timers[i] = t
}

// cancel disarms a thread's pending expiry, if any.
func (c *clock) cancel(t *Thread) {
	if !t.timed {
		return
	}
	for i, w := range c.timers {
		if w != t {
			continue
		}
		copy(c.timers[i:], c.timers[i+1:])
		c.timers[len(c.timers)-1] = nil
		c.timers = c.timers[:len(c.timers)-1]
		break
	}
	t.timed = false
}

// popDue removes and returns the next thread due at or before now.
func (c *clock) popDue(now uint64) *Thread {
	if len(c.timers) == 0 || c.timers[0].deadline > now {
		return nil
	}
	t := c.timers[0]
	c.timers[0] = nil
	c.timers = c.timers[1:]
	t.timed = false
	return t
}

// tickLoop drives the timebase at Tick resolution for the lifetime of
// the run.
func (k *Kernel) tickLoop() {
	tk := time.NewTicker(Tick)
	defer tk.Stop()
	for {
		select {
		case <-k.done:
			return
		case <-tk.C:
			k.tick()
		}
	}
}

// tick advances the timebase one tick and wakes everything due. Runs
// on the ticker goroutine: it may dispatch a thread onto an idle CPU
// but never preempts the running one; that happens at the running
// thread's next scheduling point.
func (k *Kernel) tick() {
	k.mu.Lock()
	now := k.clock.ticks.Add(1)
	for {
		t := k.clock.popDue(now)
		if t == nil {
			break
		}
		k.expire(t)
	}
	k.mu.Unlock()
}

// expire resolves one due thread: sleepers wake normally, blocked
// waiters are unlinked from their wait queue with no resource granted
// and resume with ErrTimedOut.
func (k *Kernel) expire(t *Thread) {
	switch t.state {
	case StateSleeping:
		k.readyWake(t, nil)
	case StateBlocked:
		if t.wq != nil {
			t.wq.remove(t)
		}
		t.pendItem = nil
		t.wake = wake{}
		k.readyLocked(t)
	}
}

// sleep suspends the running thread for at least d. A non-positive
// duration yields instead. Resumption competes with normal scheduling,
// so the thread continues no earlier than d but possibly later.
func (k *Kernel) sleep(d time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()
	cur := k.mustRunning("sleep")
	n, finite := After(d).ticks()
	if !finite {
		cur.state = StateReady
		k.ready.push(cur)
		k.switchOut()
		k.park(cur)
		return
	}
	cur.state = StateSleeping
	k.clock.arm(cur, n)
	k.switchOut()
	k.park(cur)
}
