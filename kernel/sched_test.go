package kernel

import "testing"

func TestReadyQueuePrecedence(t *testing.T) {
	var r readyQueue
	mk := func(id int32, prio int) *Thread { return &Thread{id: id, prio: prio} }
	r.push(mk(1, 2))
	r.push(mk(2, -1))
	r.push(mk(3, 0))
	r.push(mk(4, -1)) // behind thread 2, same priority

	want := []int32{2, 4, 3, 1}
	for i, id := range want {
		got := r.pop()
		if got == nil || got.id != id {
			t.Fatalf("pop %d = %v, want thread %d", i, got, id)
		}
	}
	if r.pop() != nil {
		t.Fatal("pop on empty queue != nil")
	}
}

func TestReadyQueuePeek(t *testing.T) {
	var r readyQueue
	if r.peek() != nil {
		t.Fatal("peek on empty queue != nil")
	}
	a := &Thread{id: 1, prio: 1}
	b := &Thread{id: 2, prio: 0}
	r.push(a)
	r.push(b)
	if got := r.peek(); got != b {
		t.Fatalf("peek() = %v, want the better-priority thread", got)
	}
	if got := r.pop(); got != b {
		t.Fatalf("pop() = %v, want peeked thread", got)
	}
}
