// Package syncutil provides the blocking primitives the scheduler is built on:
// a sticky wake signal and locks that report how many goroutines are waiting
// on or holding them.
package syncutil

import (
	"sync"
)

// Cursor records the last signal generation a waiter consumed. Each waiter
// keeps its own cursor; the zero value has consumed nothing.
type Cursor struct {
	seen  uint64
	epoch uint64
}

// Signal lets a goroutine block until another goroutine signals it, without
// losing signals that arrive between "I found nothing to do" and "I wait".
//
// A waiter that calls Wait after at least one Notify since its previous Wait
// returns immediately. Otherwise it blocks until the next Notify. Reset wakes
// every waiter and clears the signal history.
type Signal struct {
	mu      sync.Mutex
	cond    *sync.Cond
	signals uint64
	epoch   uint64
}

func NewSignal() *Signal {
	s := &Signal{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Wait blocks until a signal not yet consumed through c is available, or until
// Reset is called.
func (s *Signal) Wait(c *Cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sync(c)
	if c.seen < s.signals {
		c.seen = s.signals
		return
	}

	epoch := s.epoch
	start := s.signals
	for s.signals == start && s.epoch == epoch {
		s.cond.Wait()
	}
	s.sync(c)
	c.seen = s.signals
}

// WaitUntil blocks until pred holds or Reset is called. pred is evaluated
// with the signal's lock held, once on entry and again after every Notify,
// so it must not call back into s.
func (s *Signal) WaitUntil(c *Cursor, pred func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sync(c)
	epoch := s.epoch
	for !pred() && s.epoch == epoch {
		s.cond.Wait()
	}
	s.sync(c)
	c.seen = s.signals
}

// Notify records a signal and wakes every waiter.
func (s *Signal) Notify() {
	s.mu.Lock()
	s.signals++
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Reset wakes every waiter regardless of its predicate and forgets all
// signals sent so far.
func (s *Signal) Reset() {
	s.mu.Lock()
	s.epoch++
	s.signals = 0
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Pending reports whether c has signals it has not consumed yet.
func (s *Signal) Pending(c *Cursor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync(c)
	return c.seen < s.signals
}

// sync rebases a cursor that was last used before a Reset.
func (s *Signal) sync(c *Cursor) {
	if c.epoch != s.epoch {
		c.epoch = s.epoch
		c.seen = 0
	}
}
