package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Filter selects a page of one tenant's audit trail. Zero values disable a filter.
type Filter struct {
	TenantID uint
	Action   string
	Entity   string
	From     time.Time
	To       time.Time

	Page  int
	Limit int
}

// Normalize clamps paging to sane values.
func (f *Filter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > MaxPageSize {
		f.Limit = DefaultPageSize
	}
}

// List returns the requested page, newest first, plus the total match count.
func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	f.Normalize()

	filtered := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("tenant_id = ?", f.TenantID)
		if f.Action != "" {
			tx = tx.Where("action = ?", f.Action)
		}
		if f.Entity != "" {
			tx = tx.Where("entity = ?", f.Entity)
		}
		if !f.From.IsZero() {
			tx = tx.Where("created_at >= ?", f.From)
		}
		if !f.To.IsZero() {
			tx = tx.Where("created_at < ?", f.To)
		}
		return tx
	}

	var total int64
	if err := l.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Scopes(filtered).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := l.db.WithContext(ctx).
		Scopes(filtered).
		Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
