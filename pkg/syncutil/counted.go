package syncutil

import (
	"sync"
	"sync/atomic"
)

// CountedMutex is a sync.Mutex that also reports how many goroutines are
// currently trying to acquire it and whether it is held. The counts are only
// meant for liveness queries; they never protect anything themselves.
type CountedMutex struct {
	mu      sync.Mutex
	lockers atomic.Int32
	locked  atomic.Bool
}

func (m *CountedMutex) Lock() {
	m.lockers.Add(1)
	m.mu.Lock()
	m.lockers.Add(-1)
	m.locked.Store(true)
}

func (m *CountedMutex) TryLock() bool {
	m.lockers.Add(1)
	ok := m.mu.TryLock()
	if ok {
		m.locked.Store(true)
	}
	m.lockers.Add(-1)
	return ok
}

func (m *CountedMutex) Unlock() {
	m.locked.Store(false)
	m.mu.Unlock()
}

// LockersLeft returns the number of goroutines blocked in Lock or inside TryLock.
func (m *CountedMutex) LockersLeft() int {
	return int(m.lockers.Load())
}

func (m *CountedMutex) Locked() bool {
	return m.locked.Load()
}

// CountedRWMutex is a sync.RWMutex that reports the number of goroutines
// waiting on it, the number of readers holding it and whether a writer
// holds it.
type CountedRWMutex struct {
	mu      sync.RWMutex
	lockers atomic.Int32
	readers atomic.Int32
	locked  atomic.Bool
}

func (m *CountedRWMutex) Lock() {
	m.lockers.Add(1)
	m.mu.Lock()
	m.lockers.Add(-1)
	m.locked.Store(true)
}

func (m *CountedRWMutex) TryLock() bool {
	m.lockers.Add(1)
	ok := m.mu.TryLock()
	if ok {
		m.locked.Store(true)
	}
	m.lockers.Add(-1)
	return ok
}

func (m *CountedRWMutex) Unlock() {
	m.locked.Store(false)
	m.mu.Unlock()
}

func (m *CountedRWMutex) RLock() {
	m.lockers.Add(1)
	m.mu.RLock()
	m.lockers.Add(-1)
	m.readers.Add(1)
}

func (m *CountedRWMutex) TryRLock() bool {
	m.lockers.Add(1)
	ok := m.mu.TryRLock()
	if ok {
		m.readers.Add(1)
	}
	m.lockers.Add(-1)
	return ok
}

// RUnlock releases a read hold and returns the number of readers still
// holding the lock right after the release.
func (m *CountedRWMutex) RUnlock() int {
	left := m.readers.Add(-1)
	m.mu.RUnlock()
	return int(left)
}

func (m *CountedRWMutex) LockersLeft() int {
	return int(m.lockers.Load())
}

// SharedCount returns the number of readers currently holding the lock.
func (m *CountedRWMutex) SharedCount() int {
	return int(m.readers.Load())
}

func (m *CountedRWMutex) Locked() bool {
	return m.locked.Load()
}
