package kernel

// Lifo is an unbounded last-in/first-out queue of opaque items, the
// stack-ordered counterpart of Fifo.
type Lifo struct {
	k       *Kernel
	items   []any
	waiters waitQueue
}

// NewLifo creates an empty LIFO.
func (k *Kernel) NewLifo() *Lifo {
	return &Lifo{k: k}
}

// Push adds an item on top. It never blocks and never fails: with a
// popper waiting, the item is handed to the oldest one directly.
// Safe from offload context.
func (l *Lifo) Push(item any) {
	k := l.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.wakeOne(&l.waiters, item) {
		k.maybePreempt()
		return
	}
	l.items = append(l.items, item)
}

// Pop removes and returns the most recently pushed item, blocking per
// the timeout while the queue is empty. Offload context must use
// NoWait.
func (l *Lifo) Pop(to Timeout) (any, error) {
	k := l.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if n := len(l.items); n > 0 {
		item := l.items[n-1]
		l.items[n-1] = nil
		l.items = l.items[:n-1]
		return item, nil
	}
	if to.noWait() {
		return nil, ErrWouldBlock
	}
	return k.pend(&l.waiters, to)
}

// Len returns the number of stored items.
func (l *Lifo) Len() int {
	l.k.mu.Lock()
	defer l.k.mu.Unlock()
	return len(l.items)
}
