package lock

import (
	"context"
	"sync"
)

type memoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemory() Locker {
	return &memoryLocker{held: map[string]struct{}{}}
}

func (l *memoryLocker) TryAcquire(_ context.Context, key string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return func() {}, false, nil
	}

	l.held[key] = struct{}{}

	var once sync.Once

	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, true, nil
}
