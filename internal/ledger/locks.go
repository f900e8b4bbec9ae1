package ledger

import "sync"

// Locks serialises writes per group. Readers of one group share the lock, so
// they observe expenses and settlement records as one snapshot. Different
// groups never contend.
type Locks struct {
	mu     sync.Mutex
	groups map[string]*sync.RWMutex
}

func NewLocks() *Locks {
	return &Locks{groups: make(map[string]*sync.RWMutex)}
}

// Lock takes the write lock of groupID and returns its release function.
func (l *Locks) Lock(groupID string) func() {
	m := l.get(groupID)
	m.Lock()
	return m.Unlock
}

// RLock takes the read lock of groupID and returns its release function.
func (l *Locks) RLock(groupID string) func() {
	m := l.get(groupID)
	m.RLock()
	return m.RUnlock
}

func (l *Locks) get(groupID string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.groups[groupID]
	if !ok {
		m = &sync.RWMutex{}
		l.groups[groupID] = m
	}
	return m
}
