package service

import "sync"

// keyedTryLock admits one holder per key and refuses the rest immediately.
type keyedTryLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newKeyedTryLock() *keyedTryLock {
	return &keyedTryLock{held: make(map[string]struct{})}
}

// tryLock returns a release func, or false when key is already held.
func (l *keyedTryLock) tryLock(key string) (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, false
	}
	l.held[key] = struct{}{}
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, true
}
