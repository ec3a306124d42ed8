package services

import (
	"sync"

	"github.com/google/uuid"
)

// turnLocks serializes turn processing per user. Two concurrent turns for
// the same user would race on seq assignment and plan revisions; turns for
// different users never block each other.
type turnLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newTurnLocks() *turnLocks {
	return &turnLocks{locks: make(map[uuid.UUID]*userLock)}
}

// Acquire blocks until the user's lock is held and returns the release func.
func (t *turnLocks) Acquire(userID uuid.UUID) func() {
	t.mu.Lock()
	l, ok := t.locks[userID]
	if !ok {
		l = &userLock{}
		t.locks[userID] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, userID)
		}
		t.mu.Unlock()
	}
}
