package kernel

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// PanicInfo contains details about a panic that escaped a thread entry.
type PanicInfo struct {
	Thread *Thread
	Value  any
	Stack  []byte
}

var (
	panicActive atomic.Bool
	panicOnce   sync.Once

	panicHandler atomic.Value // func(PanicInfo)
)

// InPanicMode reports whether a thread panic has been recorded.
func InPanicMode() bool {
	return panicActive.Load()
}

// SetPanicHandler installs a process-wide handler for panics escaping
// thread entries. The handler is invoked at most once (on the first
// panic), before the panic is re-raised. It must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	panicHandler.Store(fn)
}

func reportPanic(t *Thread, value any) {
	panicOnce.Do(func() {
		panicActive.Store(true)
		info := PanicInfo{Thread: t, Value: value, Stack: debug.Stack()}
		if v := panicHandler.Load(); v != nil {
			if fn, ok := v.(func(PanicInfo)); ok && fn != nil {
				fn(info)
			}
		}
	})
}
