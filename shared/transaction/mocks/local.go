package mocks

import (
	"context"
	"sync"

	"github.com/JustAdi10/Booking/shared/transaction"
)

// LocalTransactor serializes callers per key with an in-process mutex and passes a nil tx.
// Repository mocks that receive the tx must ignore it.
type LocalTransactor struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalTransactor() *LocalTransactor {
	return &LocalTransactor{locks: map[string]*sync.Mutex{}}
}

func (l *LocalTransactor) WithLock(ctx context.Context, key string, fn transaction.TxFunc) error {
	return l.WithLocks(ctx, []string{key}, fn)
}

func (l *LocalTransactor) WithLocks(ctx context.Context, keys []string, fn transaction.TxFunc) error {
	for _, key := range transaction.LockOrder(keys) {
		lock := l.lock(key)

		lock.Lock()
		defer lock.Unlock()
	}

	return fn(ctx, nil)
}

func (l *LocalTransactor) lock(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}

	return lock
}
