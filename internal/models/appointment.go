package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch st := AppointmentStatus(s); st {
	case StatusBooked, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return st, nil
	}
	return "", fmt.Errorf("models: unknown appointment status %q", s)
}

// Scan rejects unknown values so they never leave the storage layer.
func (s *AppointmentStatus) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("models: cannot scan %T into AppointmentStatus", src)
	}
	st, err := ParseAppointmentStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s AppointmentStatus) Value() (driver.Value, error) {
	if _, err := ParseAppointmentStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TenantID uint `gorm:"index;not null" json:"tenant_id"`

	ProviderID uint     `gorm:"index;not null" json:"provider_id"`
	Provider   Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	ClientID uint   `gorm:"index;not null" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status AppointmentStatus `gorm:"size:20;not null;default:'booked';index" json:"status"`

	ServiceName string     `gorm:"size:100" json:"service_name"`
	Notes       string     `gorm:"size:255" json:"notes"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
