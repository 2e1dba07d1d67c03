package kernel

import (
	"errors"
	"testing"
)

func TestFifoOrder(t *testing.T) {
	k := New()
	f := k.NewFifo()
	var got []int
	k.Spawn(0, func(c *Context) {
		for i := 0; i < 5; i++ {
			f.Put(i)
		}
	})
	k.Spawn(1, func(c *Context) {
		for i := 0; i < 5; i++ {
			v, err := f.Get(NoWait())
			if err != nil {
				t.Errorf("Get() = %v, want nil", err)
				return
			}
			got = append(got, v.(int))
		}
	})
	k.Run()

	for i := range got {
		if got[i] != i {
			t.Fatalf("got %v, want put order", got)
		}
	}
}

func TestFifoNoWaitEmpty(t *testing.T) {
	k := New()
	f := k.NewFifo()
	k.Spawn(0, func(c *Context) {
		if _, err := f.Get(NoWait()); !errors.Is(err, ErrWouldBlock) {
			t.Errorf("Get(NoWait) = %v, want ErrWouldBlock", err)
		}
	})
	k.Run()
}

func TestFifoDirectHandoff(t *testing.T) {
	k := New()
	f := k.NewFifo()
	item := &struct{ n int }{42}
	k.Spawn(0, func(c *Context) {
		got, err := f.Get(Forever())
		if err != nil {
			t.Errorf("Get() = %v, want nil", err)
		}
		if got != item {
			t.Errorf("Get() = %p, want the handed-off item %p", got, item)
		}
	})
	k.Spawn(1, func(c *Context) {
		f.Put(item)
		// The item went straight to the waiter, never into the store.
		if n := f.Len(); n != 0 {
			t.Errorf("Len() = %d after hand-off, want 0", n)
		}
	})
	k.Run()
}

func TestFifoGetTimesOut(t *testing.T) {
	k := New()
	f := k.NewFifo()
	k.Spawn(0, func(c *Context) {
		start := c.Uptime()
		_, err := f.Get(After(20 * Tick))
		if !errors.Is(err, ErrTimedOut) {
			t.Errorf("Get() = %v, want ErrTimedOut", err)
		}
		if elapsed := c.Uptime() - start; elapsed < 20 {
			t.Errorf("timed out after %d ticks, want >= 20", elapsed)
		}
	})
	k.Run()

	// The expired waiter is gone: a later put stores the item.
	if n := f.Len(); n != 0 {
		t.Fatalf("Len() = %d, want 0", n)
	}
}

// TestFifoLoopAcrossContexts circulates the same four items between
// the main thread, an offload handler and a spawned thread, 32 times,
// checking identity and order on every hop.
func TestFifoLoopAcrossContexts(t *testing.T) {
	type payload struct{ seq int }

	k := New()
	f := k.NewFifo()
	end := k.NewSemaphore(0, 2)

	data := make([]*payload, 4)
	for i := range data {
		data[i] = &payload{seq: i}
	}

	putAll := func() {
		for _, d := range data {
			f.Put(d)
		}
	}
	getAll := func(site string) {
		for i, want := range data {
			got, err := f.Get(NoWait())
			if err != nil {
				t.Errorf("%s: Get() %d = %v, want nil", site, i, err)
				return
			}
			if got != want {
				t.Errorf("%s: Get() %d = %v, want item %d", site, i, got, i)
			}
		}
	}

	k.Spawn(0, func(c *Context) {
		for loop := 0; loop < 32; loop++ {
			tid := c.Spawn(0, func(c *Context) {
				getAll("thread")
				_ = end.Give()
				putAll()
				_ = end.Give()
			})

			putAll()
			c.Offload(func(c *Context) {
				getAll("offload")
				putAll()
			})
			if err := end.Take(Forever()); err != nil {
				t.Errorf("Take() = %v, want nil", err)
			}
			if err := end.Take(Forever()); err != nil {
				t.Errorf("Take() = %v, want nil", err)
			}
			getAll("main")
			c.Abort(tid)
		}
	})
	k.Run()
}
