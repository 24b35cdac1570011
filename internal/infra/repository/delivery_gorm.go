package repository

import (
	"context"

	"gorm.io/gorm"
)

// DeliveryLedger records which (appointment, notification type) pairs were already claimed.
type DeliveryLedger struct {
	db *gorm.DB
}

func NewDeliveryLedger(db *gorm.DB) *DeliveryLedger {
	return &DeliveryLedger{db: db}
}

// RegisterOnce returns true only for the caller whose insert created the pair.
// A duplicate is detected from the unique index, never from a prior read.
func (l *DeliveryLedger) RegisterOnce(
	ctx context.Context,
	appointmentID uint,
	notificationType string,
) (bool, error) {

	err := l.db.WithContext(ctx).Exec(
		`INSERT INTO delivery_records (appointment_id, type, created_at) VALUES (?, ?, now())`,
		appointmentID,
		notificationType,
	).Error

	if err == nil {
		return true, nil
	}
	if IsUniqueViolation(err) {
		return false, nil
	}
	return false, err
}
