package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestTurnLocksSerializesSameUser(t *testing.T) {
	locks := newTurnLocks()
	userID := uuid.New()

	const workers = 16
	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			release := locks.Acquire(userID)
			defer release()
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("expected %d increments, got %d", workers, counter)
	}

	locks.mu.Lock()
	remaining := len(locks.locks)
	locks.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected lock table drained, %d entries remain", remaining)
	}
}

func TestTurnLocksIndependentUsers(t *testing.T) {
	locks := newTurnLocks()

	releaseA := locks.Acquire(uuid.New())
	defer releaseA()

	done := make(chan struct{})
	go func() {
		release := locks.Acquire(uuid.New())
		release()
		close(done)
	}()

	// Must not block behind the other user's held lock.
	<-done
}
