//go:build debug_locks

package context

import "github.com/sasha-s/go-deadlock"

// mutex is the deadlock-detecting build of the context-wide lock,
// selected with `go build -tags debug_locks` (spec.md §4.5's
// stop_search must never block on this lock; this build tag exists to
// catch a regression that accidentally took it from the interrupt
// path during development, not to ship in production).
type mutex = deadlock.Mutex
