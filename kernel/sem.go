package kernel

// Semaphore is a counting semaphore with an upper limit.
// Invariant: 0 <= count <= limit.
type Semaphore struct {
	k       *Kernel
	count   int
	limit   int
	waiters waitQueue
}

// NewSemaphore creates a semaphore with an initial count and an upper
// limit. Panics unless 0 <= initial <= limit and limit >= 1.
func (k *Kernel) NewSemaphore(initial, limit int) *Semaphore {
	if limit < 1 || initial < 0 || initial > limit {
		panic("kernel: invalid semaphore configuration")
	}
	return &Semaphore{k: k, count: initial, limit: limit}
}

// Give releases one unit. It never blocks: with a waiter present the
// unit is handed directly to the oldest one and the count is untouched;
// otherwise the count is incremented. Giving beyond the limit clamps
// the count and reports ErrOverLimit.
func (s *Semaphore) Give() error {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.wakeOne(&s.waiters, nil) {
		k.maybePreempt()
		return nil
	}
	if s.count >= s.limit {
		return ErrOverLimit
	}
	s.count++
	return nil
}

// Take acquires one unit, blocking per the timeout when the count is
// zero. A woken waiter received its unit directly from Give and does
// not touch the count.
func (s *Semaphore) Take(to Timeout) error {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if s.count > 0 {
		s.count--
		return nil
	}
	if to.noWait() {
		return ErrWouldBlock
	}
	_, err := k.pend(&s.waiters, to)
	return err
}

// Count returns the current count.
func (s *Semaphore) Count() int {
	s.k.mu.Lock()
	defer s.k.mu.Unlock()
	return s.count
}

// Limit returns the configured upper limit.
func (s *Semaphore) Limit() int { return s.limit }
