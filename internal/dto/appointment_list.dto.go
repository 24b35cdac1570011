package dto

import "time"

// AppointmentListDTO is one row of an operator agenda. Local* fields are rendered in
// the provider's zone so clients need no timezone math.
type AppointmentListDTO struct {
	ID         uint      `json:"id"`
	ProviderID uint      `json:"provider_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	LocalDate  string    `json:"local_date"`
	LocalStart string    `json:"local_start"`
	LocalEnd   string    `json:"local_end"`

	Status      string `json:"status"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ServiceName string `json:"service_name"`
	Notes       string `json:"notes,omitempty"`
}
