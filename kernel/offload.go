package kernel

// Offload executes handler synchronously in interrupt context,
// borrowing the calling thread's execution. The handler runs to
// completion before Offload returns; no scheduling decision occurs
// while it runs, and any preemption it caused is taken at the return.
//
// Contract: the handler may only use NoWait primitive operations.
// A suspending call (blocking take, sleep, yield) from offload context
// panics, as does nesting Offload.
func (c *Context) Offload(handler func(*Context)) {
	k := c.k
	k.mu.Lock()
	if k.offloadDepth > 0 {
		k.mu.Unlock()
		panic("kernel: nested offload")
	}
	k.offloadDepth = 1
	k.mu.Unlock()

	defer func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		k.offloadDepth = 0
		k.maybePreempt()
	}()
	handler(c)
}
