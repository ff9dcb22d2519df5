package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a BuildLocker.
type UnlockFunc func(ctx context.Context) error

// BuildLocker serialises automaton construction across instances sharing an
// AutomatonStore, so a large table is generated by one replica while the
// others wait and then load it.
type BuildLocker interface {
	// LockBuild blocks until the build lock for modulus is held, the context
	// is canceled, or the implementation gives up. The lock expires after ttl
	// even if never released. The returned UnlockFunc MUST be called.
	LockBuild(ctx context.Context, modulus int, ttl time.Duration) (UnlockFunc, error)
}
