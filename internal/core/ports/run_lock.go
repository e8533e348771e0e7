package ports

import (
	"context"
)

// RunLock guarantees that at most one ingestion run executes at a time, possibly
// across several service instances.
type RunLock interface {
	// TryAcquire takes the lock without waiting. It returns acquired=false when another
	// run holds it. The returned release function must be called once the run ends.
	TryAcquire(ctx context.Context) (release func(), acquired bool, err error)
}
