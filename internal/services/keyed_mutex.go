package services

import "sync"

// keyedMutex serializes critical sections per string key. The entry
// lifecycle uses it keyed by (employee, date) so two concurrent
// submissions cannot both pass the overlap check against a stale
// snapshot; the reconciler uses it keyed by (employee, year, month) so
// concurrent Settle calls cannot double-credit one outstanding balance.
type keyedMutex struct {
	mu   sync.Mutex
	held map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{held: make(map[string]*keyLock)}
}

// Lock acquires the mutex for key and returns its unlock function.
// Locks are reference-counted and removed from the table once released
// by the last waiter.
func (km *keyedMutex) Lock(key string) func() {
	km.mu.Lock()
	kl, ok := km.held[key]
	if !ok {
		kl = &keyLock{}
		km.held[key] = kl
	}
	kl.refs++
	km.mu.Unlock()

	kl.mu.Lock()

	return func() {
		kl.mu.Unlock()
		km.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(km.held, key)
		}
		km.mu.Unlock()
	}
}
