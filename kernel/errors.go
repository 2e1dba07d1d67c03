package kernel

import "errors"

// The error taxonomy of the kernel. WouldBlock and TimedOut are
// ordinary outcomes every caller of a timed operation branches on;
// NotOwner and OverLimit report contract misuse; Aborted is raised
// (not returned) through a thread whose pending wait was cancelled by
// Abort.
var (
	// ErrWouldBlock reports that a NoWait operation found the resource
	// unavailable. No context switch has occurred.
	ErrWouldBlock = errors.New("kernel: would block")

	// ErrTimedOut reports that a timed wait elapsed before the resource
	// became available. The wait left no trace on the primitive.
	ErrTimedOut = errors.New("kernel: timed out")

	// ErrNotOwner reports an unlock attempted by a thread that does not
	// own the mutex. Ownership is unchanged.
	ErrNotOwner = errors.New("kernel: mutex not owned by caller")

	// ErrOverLimit reports a semaphore give beyond the configured
	// limit. The count is clamped, not corrupted.
	ErrOverLimit = errors.New("kernel: semaphore limit exceeded")

	// ErrAborted is the panic value unwinding a thread terminated by
	// Abort. Deferred calls observing it must re-raise or return.
	ErrAborted = errors.New("kernel: thread aborted")
)
