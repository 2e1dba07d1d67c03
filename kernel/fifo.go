package kernel

// Fifo is an unbounded first-in/first-out queue of opaque items.
// An item is either stored in the sequence or handed directly to a
// waiter, never both.
type Fifo struct {
	k       *Kernel
	items   []any
	waiters waitQueue
}

// NewFifo creates an empty FIFO.
func (k *Kernel) NewFifo() *Fifo {
	return &Fifo{k: k}
}

// Put appends an item. It never blocks and never fails: with a getter
// waiting, the item bypasses the sequence and is handed to the oldest
// one. Safe from offload context.
func (f *Fifo) Put(item any) {
	k := f.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.wakeOne(&f.waiters, item) {
		k.maybePreempt()
		return
	}
	f.items = append(f.items, item)
}

// Get removes and returns the oldest item, blocking per the timeout
// while the queue is empty. Offload context must use NoWait.
func (f *Fifo) Get(to Timeout) (any, error) {
	k := f.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(f.items) > 0 {
		item := f.items[0]
		f.items[0] = nil
		f.items = f.items[1:]
		return item, nil
	}
	if to.noWait() {
		return nil, ErrWouldBlock
	}
	return k.pend(&f.waiters, to)
}

// Len returns the number of stored items.
func (f *Fifo) Len() int {
	f.k.mu.Lock()
	defer f.k.mu.Unlock()
	return len(f.items)
}
