package kernel

// Stack is a fixed-capacity last-in/first-out buffer with blocking on
// both sides: pushers wait while full, poppers wait while empty.
// Invariant: 0 <= fill <= capacity.
type Stack struct {
	k       *Kernel
	slots   []any
	n       int
	pushers waitQueue
	poppers waitQueue
}

// NewStack creates an empty bounded stack. Panics unless capacity >= 1.
func (k *Kernel) NewStack(capacity int) *Stack {
	if capacity < 1 {
		panic("kernel: invalid stack capacity")
	}
	return &Stack{k: k, slots: make([]any, capacity)}
}

// Push adds an item on top, blocking per the timeout while the stack
// is full. With a popper waiting the item is handed to the oldest one
// directly, bypassing the slots. Offload context must use NoWait.
func (s *Stack) Push(item any, to Timeout) error {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.wakeOne(&s.poppers, item) {
		k.maybePreempt()
		return nil
	}
	if s.n < len(s.slots) {
		s.slots[s.n] = item
		s.n++
		return nil
	}
	if to.noWait() {
		return ErrWouldBlock
	}
	// The item travels with the blocked thread; the popper that frees
	// a slot deposits it. A timeout or abort discards the link.
	cur := k.mustRunning("blocking push")
	cur.pendItem = item
	_, err := k.pend(&s.pushers, to)
	return err
}

// Pop removes and returns the top item, blocking per the timeout while
// the stack is empty. Popping with a pusher waiting moves the pusher's
// item into the freed slot. Offload context must use NoWait.
func (s *Stack) Pop(to Timeout) (any, error) {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if s.n > 0 {
		s.n--
		item := s.slots[s.n]
		s.slots[s.n] = nil
		if t := s.pushers.popOldest(); t != nil {
			k.clock.cancel(t)
			s.slots[s.n] = t.pendItem
			t.pendItem = nil
			s.n++
			k.readyWake(t, nil)
			k.maybePreempt()
		}
		return item, nil
	}
	if to.noWait() {
		return nil, ErrWouldBlock
	}
	return k.pend(&s.poppers, to)
}

// Len returns the current fill count.
func (s *Stack) Len() int {
	s.k.mu.Lock()
	defer s.k.mu.Unlock()
	return s.n
}

// Cap returns the configured capacity.
func (s *Stack) Cap() int { return len(s.slots) }
