package kernel

import "fmt"

// Kind selects one of the five synchronization primitive kinds behind
// the uniform Fork surface.
type Kind uint8

const (
	KindSemaphore Kind = iota
	KindMutex
	KindFifo
	KindLifo
	KindStack
)

func (k Kind) String() string {
	switch k {
	case KindSemaphore:
		return "semaphore"
	case KindMutex:
		return "mutex"
	case KindFifo:
		return "fifo"
	case KindLifo:
		return "lifo"
	case KindStack:
		return "stack"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name to its Kind value.
func ParseKind(s string) (Kind, error) {
	for k := KindSemaphore; k <= KindStack; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("kernel: unknown kind %q", s)
}

// Fork is the uniform take/drop capability shared by all five kinds,
// selected by a Kind value at construction. Call sites stay unaware of
// the concrete primitive behind it.
type Fork interface {
	// Take acquires the resource, blocking per the timeout.
	Take(Timeout) error
	// Drop releases the resource. It never blocks.
	Drop() error
}

// NewFork creates an initialized resource of the given kind holding one
// available unit.
func NewFork(k *Kernel, kind Kind) Fork {
	switch kind {
	case KindSemaphore:
		return semFork{k.NewSemaphore(1, 1)}
	case KindMutex:
		return mutexFork{k.NewMutex()}
	case KindFifo:
		f := fifoFork{k.NewFifo(), new(forkToken)}
		f.q.Put(f.token)
		return f
	case KindLifo:
		l := lifoFork{k.NewLifo(), new(forkToken)}
		l.q.Push(l.token)
		return l
	case KindStack:
		s := stackFork{k.NewStack(1), new(forkToken)}
		_ = s.s.Push(s.token, NoWait())
		return s
	default:
		panic("kernel: unknown fork kind")
	}
}

// forkToken is the single unit circulated through queue-backed forks.
type forkToken struct{}

type semFork struct{ s *Semaphore }

func (f semFork) Take(to Timeout) error { return f.s.Take(to) }
func (f semFork) Drop() error           { return f.s.Give() }

type mutexFork struct{ m *Mutex }

func (f mutexFork) Take(to Timeout) error { return f.m.Lock(to) }
func (f mutexFork) Drop() error           { return f.m.Unlock() }

type fifoFork struct {
	q     *Fifo
	token *forkToken
}

func (f fifoFork) Take(to Timeout) error {
	_, err := f.q.Get(to)
	return err
}

func (f fifoFork) Drop() error {
	f.q.Put(f.token)
	return nil
}

type lifoFork struct {
	q     *Lifo
	token *forkToken
}

func (f lifoFork) Take(to Timeout) error {
	_, err := f.q.Pop(to)
	return err
}

func (f lifoFork) Drop() error {
	f.q.Push(f.token)
	return nil
}

type stackFork struct {
	s     *Stack
	token *forkToken
}

func (f stackFork) Take(to Timeout) error {
	_, err := f.s.Pop(to)
	return err
}

func (f stackFork) Drop() error {
	return f.s.Push(f.token, NoWait())
}
