package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type RunLockRepository struct {
	db *gorm.DB
}

func NewRunLockRepository(db *gorm.DB) *RunLockRepository {
	return &RunLockRepository{db: db}
}

// TryAcquire inserts the lock row, or takes over a row whose TTL has run out.
// A live row held by anyone else leaves the statement with zero affected rows.
func (r *RunLockRepository) TryAcquire(
	ctx context.Context,
	key string,
	owner string,
	ttl time.Duration,
) (bool, error) {

	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO run_locks (key, owner, expires_at)
		VALUES (?, ?, now() + (? * interval '1 second'))
		ON CONFLICT (key) DO UPDATE
		SET owner = EXCLUDED.owner, expires_at = EXCLUDED.expires_at
		WHERE run_locks.expires_at <= now()`,
		key,
		owner,
		ttl.Seconds(),
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Release only removes the row if owner still holds it.
func (r *RunLockRepository) Release(
	ctx context.Context,
	key string,
	owner string,
) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM run_locks WHERE key = ? AND owner = ?`,
		key,
		owner,
	).Error
}
