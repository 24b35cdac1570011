package models

import "time"

// DeliveryRecord existing means the notification was already claimed for sending.
// Rows are inserted once and never updated.
type DeliveryRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AppointmentID uint      `gorm:"uniqueIndex:idx_delivery_appointment_type;not null" json:"appointment_id"`
	Type          string    `gorm:"size:50;uniqueIndex:idx_delivery_appointment_type;not null" json:"type"`
	CreatedAt     time.Time `json:"created_at"`
}

type RunLock struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Owner     string    `gorm:"size:64;not null" json:"owner"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
