package kernel

import (
	"errors"
	"testing"
)

var allKinds = []Kind{KindSemaphore, KindMutex, KindFifo, KindLifo, KindStack}

func TestForkContention(t *testing.T) {
	for _, kind := range allKinds {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			k := New()
			fork := NewFork(k, kind)
			held := k.NewSemaphore(0, 1)
			k.Spawn(0, func(c *Context) {
				if err := fork.Take(Forever()); err != nil {
					t.Errorf("Take() = %v, want nil", err)
				}
				_ = held.Give()
				c.Sleep(5 * Tick)
				if err := fork.Drop(); err != nil {
					t.Errorf("Drop() = %v, want nil", err)
				}
			})
			k.Spawn(0, func(c *Context) {
				if err := held.Take(Forever()); err != nil {
					t.Errorf("Take(held) = %v, want nil", err)
				}
				if err := fork.Take(NoWait()); !errors.Is(err, ErrWouldBlock) {
					t.Errorf("Take(NoWait) on held fork = %v, want ErrWouldBlock", err)
				}
				if err := fork.Take(Forever()); err != nil {
					t.Errorf("Take() after drop = %v, want nil", err)
				}
				if err := fork.Drop(); err != nil {
					t.Errorf("Drop() = %v, want nil", err)
				}
			})
			k.Run()
		})
	}
}

func TestForkTakeTimesOut(t *testing.T) {
	for _, kind := range allKinds {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			k := New()
			fork := NewFork(k, kind)
			k.Spawn(0, func(c *Context) {
				if err := fork.Take(Forever()); err != nil {
					t.Errorf("Take() = %v, want nil", err)
				}
				c.Sleep(30 * Tick)
				_ = fork.Drop()
			})
			k.Spawn(0, func(c *Context) {
				c.Sleep(Tick)
				if err := fork.Take(After(5 * Tick)); !errors.Is(err, ErrTimedOut) {
					t.Errorf("Take() = %v, want ErrTimedOut", err)
				}
			})
			k.Run()
		})
	}
}

func TestKindStrings(t *testing.T) {
	want := map[Kind]string{
		KindSemaphore: "semaphore",
		KindMutex:     "mutex",
		KindFifo:      "fifo",
		KindLifo:      "lifo",
		KindStack:     "stack",
	}
	for kind, name := range want {
		if got := kind.String(); got != name {
			t.Fatalf("Kind(%d).String() = %q, want %q", kind, got, name)
		}
		parsed, err := ParseKind(name)
		if err != nil || parsed != kind {
			t.Fatalf("ParseKind(%q) = %v, %v, want %v, nil", name, parsed, err, kind)
		}
	}
	if _, err := ParseKind("spinlock"); err == nil {
		t.Fatal("ParseKind(spinlock) = nil error, want error")
	}
}
