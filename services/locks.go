package services

import "sync"

// FixtureLocks serializes read-modify-write sequences on one fixture within this process.
type FixtureLocks struct {
	mu    sync.Mutex
	locks map[int]*fixtureLock
}

type fixtureLock struct {
	mu   sync.Mutex
	refs int
}

func NewFixtureLocks() *FixtureLocks {
	return &FixtureLocks{locks: make(map[int]*fixtureLock)}
}

// Lock blocks until fixtureID is free and returns its unlock function.
func (l *FixtureLocks) Lock(fixtureID int) func() {
	l.mu.Lock()
	lock, ok := l.locks[fixtureID]
	if !ok {
		lock = &fixtureLock{}
		l.locks[fixtureID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, fixtureID)
		}
		l.mu.Unlock()
	}
}
