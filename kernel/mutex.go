package kernel

// Mutex is a reentrant mutual-exclusion lock with direct ownership
// hand-off. Invariant: depth > 0 iff owner is set.
type Mutex struct {
	k       *Kernel
	owner   *Thread
	depth   int
	waiters waitQueue
}

// NewMutex creates an unlocked mutex.
func (k *Kernel) NewMutex() *Mutex {
	return &Mutex{k: k}
}

// Lock acquires the mutex, blocking per the timeout while another
// thread owns it. The owner may lock again; each nested Lock needs a
// matching Unlock.
func (m *Mutex) Lock(to Timeout) error {
	k := m.k
	k.mu.Lock()
	defer k.mu.Unlock()
	cur := k.currentThread("mutex lock")
	if m.owner == nil {
		m.owner = cur
		m.depth = 1
		return nil
	}
	if m.owner == cur {
		m.depth++
		return nil
	}
	if to.noWait() {
		return ErrWouldBlock
	}
	// On wakeup the unlocker has already transferred ownership.
	_, err := k.pend(&m.waiters, to)
	return err
}

// TryLock acquires the mutex without blocking.
func (m *Mutex) TryLock() bool {
	return m.Lock(NoWait()) == nil
}

// Unlock releases one level of ownership. Unlock by a non-owner fails
// with ErrNotOwner and changes nothing. When the outermost level is
// released and a thread is waiting, ownership transfers directly to
// the oldest waiter, bypassing re-contention.
func (m *Mutex) Unlock() error {
	k := m.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if m.owner == nil || m.owner != k.running {
		return ErrNotOwner
	}
	m.depth--
	if m.depth > 0 {
		return nil
	}
	if t := m.waiters.popOldest(); t != nil {
		k.clock.cancel(t)
		m.owner = t
		m.depth = 1
		k.readyWake(t, nil)
		k.maybePreempt()
		return nil
	}
	m.owner = nil
	return nil
}

// Owner returns the owning thread, or nil when the mutex is free.
func (m *Mutex) Owner() *Thread {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	return m.owner
}
