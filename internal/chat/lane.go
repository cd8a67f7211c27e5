package chat

import "sync"

// LaneLock provides per-session serialization. Turns within the same
// session are processed one at a time; turns for different sessions run
// concurrently. This is what makes the read-modify-write over the session
// store safe without a merge strategy: each session behaves as a single
// sequential actor.
//
// A global mutex protects the lane map and is held only briefly to look
// up or create the per-session mutex.
type LaneLock struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

// lane stores per-session synchronization metadata. refs counts
// goroutines that acquired (or are waiting on) this lane; the entry is
// removed once refs drops to zero.
type lane struct {
	mu   sync.Mutex
	refs int
}

// NewLaneLock creates a ready-to-use LaneLock.
func NewLaneLock() *LaneLock {
	return &LaneLock{lanes: make(map[string]*lane)}
}

// Acquire gets or creates the per-session mutex and locks it.
// The caller must call Release with the same key when done.
func (l *LaneLock) Acquire(sessionID string) {
	l.mu.Lock()
	ln, ok := l.lanes[sessionID]
	if !ok {
		ln = &lane{}
		l.lanes[sessionID] = ln
	}
	ln.refs++
	l.mu.Unlock()

	// Lock outside the global mutex so other sessions are not blocked.
	ln.mu.Lock()
}

// Release unlocks the per-session mutex for the given key and removes
// the lane entry when no goroutine holds or waits on it, keeping the map
// bounded by the number of in-flight sessions.
func (l *LaneLock) Release(sessionID string) {
	l.mu.Lock()
	ln, ok := l.lanes[sessionID]
	if !ok {
		l.mu.Unlock()
		return
	}
	ln.refs--
	if ln.refs == 0 {
		delete(l.lanes, sessionID)
	}
	l.mu.Unlock()

	ln.mu.Unlock()
}
