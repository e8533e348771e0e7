package runlock

import (
	"context"
	"sync"

	"deliveryingest/internal/core/ports"
)

// LocalLock is an in-process RunLock.
type LocalLock struct {
	mu sync.Mutex
}

var _ ports.RunLock = (*LocalLock)(nil)

// NewLocalLock creates an unlocked LocalLock.
func NewLocalLock() *LocalLock {
	return &LocalLock{}
}

// TryAcquire never blocks and never fails.
func (l *LocalLock) TryAcquire(context.Context) (func(), bool, error) {
	if !l.mu.TryLock() {
		return nil, false, nil
	}
	var once sync.Once
	return func() { once.Do(l.mu.Unlock) }, true, nil
}
