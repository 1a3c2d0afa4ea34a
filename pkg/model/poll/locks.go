package poll

import (
	"github.com/iotaledger/hive.go/syncutils"
)

// PollLocks serializes all mutations of the same poll.
type PollLocks struct {
	mutex syncutils.Mutex
	locks map[PollID]*syncutils.Mutex
}

func NewPollLocks() *PollLocks {
	return &PollLocks{
		locks: make(map[PollID]*syncutils.Mutex),
	}
}

func (l *PollLocks) lock(pollID PollID) *syncutils.Mutex {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	m, exists := l.locks[pollID]
	if !exists {
		m = &syncutils.Mutex{}
		l.locks[pollID] = m
	}

	return m
}

// Lock acquires the lock of the given poll.
func (l *PollLocks) Lock(pollID PollID) {
	l.lock(pollID).Lock()
}

// Unlock releases the lock of the given poll.
func (l *PollLocks) Unlock(pollID PollID) {
	l.lock(pollID).Unlock()
}
