package kernel

import "time"

// Tick is the resolution of the kernel timebase.
const Tick = time.Millisecond

// Timeout bounds a blocking operation: fail fast, wait up to a
// duration, or wait indefinitely. The zero value is NoWait.
type Timeout struct {
	n int64 // ticks; 0 = no wait, < 0 = forever
}

// NoWait fails immediately with ErrWouldBlock when the resource is
// unavailable. The only timeout legal inside an offload handler.
func NoWait() Timeout { return Timeout{} }

// Forever waits until the resource is handed over.
func Forever() Timeout { return Timeout{n: -1} }

// After waits up to d, rounded up to a whole number of ticks.
// Non-positive durations behave like NoWait.
func After(d time.Duration) Timeout {
	if d <= 0 {
		return NoWait()
	}
	n := int64((d + Tick - 1) / Tick)
	return Timeout{n: n}
}

func (to Timeout) noWait() bool { return to.n == 0 }

// ticks returns the wait bound in ticks; finite is false for Forever.
func (to Timeout) ticks() (n uint64, finite bool) {
	if to.n <= 0 {
		return 0, false
	}
	return uint64(to.n), true
}

func (to Timeout) String() string {
	switch {
	case to.n == 0:
		return "no-wait"
	case to.n < 0:
		return "forever"
	default:
		return (time.Duration(to.n) * Tick).String()
	}
}
