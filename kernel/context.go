package kernel

import "time"

// Context is the per-thread view of the kernel, passed to every thread
// entry. The same context is reused for offload handlers running on
// the thread's borrowed execution.
type Context struct {
	k *Kernel
	t *Thread
}

// Thread returns the thread this context belongs to.
func (c *Context) Thread() *Thread { return c.t }

// Uptime returns the number of ticks elapsed since Run started.
func (c *Context) Uptime() uint64 { return c.k.Uptime() }

// Sleep suspends the calling thread for at least d. Sleep(0) yields.
func (c *Context) Sleep(d time.Duration) { c.k.sleep(d) }

// Yield moves the calling thread behind its priority class, letting
// equal-priority threads run. A cooperative thread's quantum ends here.
func (c *Context) Yield() { c.k.yield() }

// Spawn creates a thread; see Kernel.Spawn.
func (c *Context) Spawn(prio int, entry func(*Context), opts ...ThreadOptions) *Thread {
	return c.k.Spawn(prio, entry, opts...)
}

// Abort terminates a thread; see Kernel.Abort.
func (c *Context) Abort(t *Thread) { c.k.Abort(t) }
