// Package internal holds helpers shared by the dynarray memory sources.
package internal

import (
	"runtime"
	"sync/atomic"
)

const maxBackoff = 16

// SpinLock is a sync.Locker that yields with exponential backoff while
// contended. Critical sections guarded by it must stay short.
type SpinLock struct {
	state atomic.Int32
}

// TryLock acquires the lock if it is free.
func (sl *SpinLock) TryLock() bool {
	return sl.state.CompareAndSwap(0, 1)
}

func (sl *SpinLock) Lock() {
	backoff := 1
	for !sl.TryLock() {
		for i := 0; i < backoff; i++ {
			runtime.Gosched()
		}
		if backoff < maxBackoff {
			backoff <<= 1
		}
	}
}

func (sl *SpinLock) Unlock() {
	sl.state.Store(0)
}
