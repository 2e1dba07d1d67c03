package kernel

// readyQueue holds runnable threads ordered by precedence: numerically
// lower priority first, FIFO among equals (a newly readied thread goes
// behind every thread of the same priority).
type readyQueue struct {
	q []*Thread
}

func (r *readyQueue) push(t *Thread) {
	i := 0
	for i < len(r.q) && r.q[i].prio <= t.prio {
		i++
	}
	r.q = append(r.q, nil)
	copy(r.q[i+1:], r.q[i:])
	r.q[i] = t
}

// pop removes and returns the highest-precedence thread.
func (r *readyQueue) pop() *Thread {
	if len(r.q) == 0 {
		return nil
	}
	t := r.q[0]
	r.q[0] = nil
	r.q = r.q[1:]
	return t
}

func (r *readyQueue) peek() *Thread {
	if len(r.q) == 0 {
		return nil
	}
	return r.q[0]
}
