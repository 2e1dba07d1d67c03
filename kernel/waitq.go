package kernel

// waitQueue is an arrival-ordered list of blocked threads. It does not
// own them: entries are references used only to wake or remove, and a
// thread sits on at most one wait queue at a time.
type waitQueue struct {
	waiters []*Thread
}

func (q *waitQueue) append(t *Thread) {
	t.wq = q
	q.waiters = append(q.waiters, t)
}

// popOldest removes and returns the longest-waiting thread, or nil.
func (q *waitQueue) popOldest() *Thread {
	if len(q.waiters) == 0 {
		return nil
	}
	t := q.waiters[0]
	q.waiters[0] = nil
	q.waiters = q.waiters[1:]
	t.wq = nil
	return t
}

// remove unlinks a thread from the queue, leaving the queue exactly as
// if the thread had never waited. Reports whether it was present.
func (q *waitQueue) remove(t *Thread) bool {
	for i, w := range q.waiters {
		if w != t {
			continue
		}
		copy(q.waiters[i:], q.waiters[i+1:])
		q.waiters[len(q.waiters)-1] = nil
		q.waiters = q.waiters[:len(q.waiters)-1]
		t.wq = nil
		return true
	}
	return false
}
