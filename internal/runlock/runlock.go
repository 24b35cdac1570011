package runlock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is the atomic storage primitive behind a Locker.
type Store interface {
	TryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, owner string) error
}

type Locker struct {
	store Store
	ttl   time.Duration
	log   zerolog.Logger
}

func New(store Store, ttl time.Duration, log zerolog.Logger) *Locker {
	return &Locker{store: store, ttl: ttl, log: log}
}

// Run executes fn only if key could be acquired. ran is false when another
// holder has a live lock. The lock is released on every exit path, panics included.
func (l *Locker) Run(ctx context.Context, key string, fn func(ctx context.Context) error) (ran bool, err error) {
	owner := uuid.NewString()

	ok, err := l.store.TryAcquire(ctx, key, owner, l.ttl)
	if err != nil {
		return false, err
	}
	if !ok {
		l.log.Debug().Str("lock", key).Msg("run lock held elsewhere")
		return false, nil
	}

	defer func() {
		relErr := l.store.Release(context.WithoutCancel(ctx), key, owner)
		if relErr != nil {
			l.log.Error().Err(relErr).Str("lock", key).Msg("run lock release failed")
			err = errors.Join(err, relErr)
		}
	}()

	return true, fn(ctx)
}
