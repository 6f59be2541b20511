// Package keylock provides mutual exclusion per string key. Waiting for a key honours
// context cancellation, so a caller never blocks past its deadline.
package keylock

import (
	"context"
	"sync"
)

type entry struct {
	ch   chan struct{}
	refs int
}

type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func New() *Locker {
	return &Locker{
		locks: make(map[string]*entry),
	}
}

// Lock blocks until key is free or ctx is done. The returned func releases the key and
// is safe to call more than once.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

func (l *Locker) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// Len returns the number of keys currently held or waited on.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
