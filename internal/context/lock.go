//go:build !debug_locks

package context

import "sync"

// mutex is the context-wide lock guarding assertion/check-sat/push/pop
// calls. The plain sync.Mutex is used by default; building with
// -tags debug_locks swaps in a deadlock-detecting mutex (lock_debug.go,
// this file's debug_locks counterpart) for development builds that
// want to catch lock-ordering bugs between the context and a
// stop_search caller running on another goroutine.
type mutex = sync.Mutex
