package kernel

import (
	"errors"
	"testing"
)

func TestSemaphoreConservation(t *testing.T) {
	k := New()
	sem := k.NewSemaphore(0, 10)
	k.Spawn(0, func(c *Context) {
		for i := 0; i < 7; i++ {
			if err := sem.Give(); err != nil {
				t.Errorf("Give() = %v, want nil", err)
			}
		}
		for i := 0; i < 3; i++ {
			if err := sem.Take(NoWait()); err != nil {
				t.Errorf("Take() = %v, want nil", err)
			}
		}
	})
	k.Run()

	if got := sem.Count(); got != 4 {
		t.Fatalf("Count() = %d, want 4", got)
	}
}

func TestSemaphoreClampAtLimit(t *testing.T) {
	k := New()
	sem := k.NewSemaphore(1, 1)
	k.Spawn(0, func(c *Context) {
		if err := sem.Give(); !errors.Is(err, ErrOverLimit) {
			t.Errorf("Give() = %v, want ErrOverLimit", err)
		}
	})
	k.Run()

	if got := sem.Count(); got != 1 {
		t.Fatalf("Count() = %d, want clamped 1", got)
	}
}

func TestSemaphoreNoWaitEmpty(t *testing.T) {
	k := New()
	sem := k.NewSemaphore(0, 1)
	k.Spawn(0, func(c *Context) {
		if err := sem.Take(NoWait()); !errors.Is(err, ErrWouldBlock) {
			t.Errorf("Take(NoWait) = %v, want ErrWouldBlock", err)
		}
	})
	k.Run()
}

func TestSemaphoreWakeOldestFirst(t *testing.T) {
	k := New()
	sem := k.NewSemaphore(0, 3)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		k.Spawn(0, func(c *Context) {
			if err := sem.Take(Forever()); err != nil {
				t.Errorf("Take() = %v, want nil", err)
			}
			order = append(order, i)
		})
	}
	k.Spawn(1, func(c *Context) {
		for i := 0; i < 3; i++ {
			_ = sem.Give()
		}
	})
	k.Run()

	for i := range order {
		if order[i] != i {
			t.Fatalf("wake order = %v, want arrival order", order)
		}
	}
	if got := sem.Count(); got != 0 {
		t.Fatalf("Count() = %d after hand-offs, want 0", got)
	}
}

func TestSemaphoreTakeTimesOut(t *testing.T) {
	k := New()
	sem := k.NewSemaphore(0, 1)
	k.Spawn(0, func(c *Context) {
		start := c.Uptime()
		err := sem.Take(After(50 * Tick))
		elapsed := c.Uptime() - start
		if !errors.Is(err, ErrTimedOut) {
			t.Errorf("Take() = %v, want ErrTimedOut", err)
		}
		if elapsed < 50 {
			t.Errorf("timed out after %d ticks, want >= 50", elapsed)
		}
	})
	k.Run()
}

func TestSemaphoreEarlyRelease(t *testing.T) {
	k := New()
	sem := k.NewSemaphore(0, 1)
	k.Spawn(0, func(c *Context) {
		start := c.Uptime()
		err := sem.Take(After(10000 * Tick))
		elapsed := c.Uptime() - start
		if err != nil {
			t.Errorf("Take() = %v, want nil", err)
		}
		if elapsed < 30 {
			t.Errorf("woke after %d ticks, want >= 30", elapsed)
		}
	})
	k.Spawn(1, func(c *Context) {
		c.Sleep(30 * Tick)
		_ = sem.Give()
	})
	k.Run()
}

func TestSemaphoreTimeoutLeavesNoTrace(t *testing.T) {
	k := New()
	sem := k.NewSemaphore(0, 1)
	k.Spawn(0, func(c *Context) {
		if err := sem.Take(After(5 * Tick)); !errors.Is(err, ErrTimedOut) {
			t.Errorf("Take() = %v, want ErrTimedOut", err)
		}
		// No phantom waiter: the unit is banked, not handed off.
		if err := sem.Give(); err != nil {
			t.Errorf("Give() = %v, want nil", err)
		}
	})
	k.Run()

	if got := sem.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1", got)
	}
}

func TestNewSemaphoreRejectsBadConfig(t *testing.T) {
	k := New()
	for _, tc := range []struct{ initial, limit int }{
		{0, 0},
		{-1, 1},
		{2, 1},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewSemaphore(%d, %d) did not panic", tc.initial, tc.limit)
				}
			}()
			k.NewSemaphore(tc.initial, tc.limit)
		}()
	}
}
