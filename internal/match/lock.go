package match

import "sync"

// matchLocks serializes mutations per match ID. Accept/refuse/leave and
// result recording on the same match must be mutually exclusive so a
// double-submit cannot overbook the roster or double-record a result;
// operations on different matches proceed concurrently.
type matchLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMatchLocks() *matchLocks {
	return &matchLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for matchID and returns the unlock function.
func (l *matchLocks) acquire(matchID string) func() {
	l.mu.Lock()
	m, ok := l.locks[matchID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[matchID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
