package matchlock

import "sync"

// Keyed serializes mutating operations per match id. Two racing requests
// against the same match must not both validate against a stale view, so
// every mutation path acquires the match's lock for its full duration.
// Locks for distinct matches do not contend.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *Keyed {
	return &Keyed{locks: make(map[string]*entry)}
}

// Lock acquires the exclusive lock for key and returns its release func.
func (k *Keyed) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
