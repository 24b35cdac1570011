package models

import "time"

type Tenant struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	Name                   string    `gorm:"size:100;not null" json:"name"`
	Slug                   string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone                  string    `gorm:"size:20" json:"phone"`
	Timezone               string    `gorm:"size:64" json:"timezone"`
	MinAdvanceMinutes      int       `gorm:"default:120" json:"min_advance_minutes"`
	MaxMonthlyAppointments int       `gorm:"default:0" json:"max_monthly_appointments"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
