package ledger

import "sync"

type keyEntry struct {
	mu   sync.Mutex
	refs int
}

// KeyedLock serializes callers per key. Entries are refcounted and removed
// once the last holder releases, so the map never grows with the user
// population. Distinct keys never contend.
type KeyedLock struct {
	mu      sync.Mutex
	entries map[string]*keyEntry
}

// NewKeyedLock creates an empty keyed lock.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{entries: make(map[string]*keyEntry)}
}

// Lock acquires the mutex for the given key, creating it on first use.
func (l *KeyedLock) Lock(key string) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &keyEntry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for the given key.
func (l *KeyedLock) Unlock(key string) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		l.mu.Unlock()
		panic("ledger: unlock of unheld key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}

// Len reports the number of keys currently tracked.
func (l *KeyedLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
