package httperr

import "errors"

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the business code carried by err, or "" for infrastructure errors.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Business codes shared by the use cases and the handler layer.
const (
	CodeInvalidRequest      = "invalid_request"
	CodeInvalidDateOrTime   = "invalid_date_or_time"
	CodeInvalidDuration     = "invalid_duration"
	CodeTooSoon             = "too_soon"
	CodeOutsideWorkingHours = "outside_working_hours"
	CodeClosedDay           = "closed_day"

	CodeForbidden        = "forbidden"
	CodeProviderInactive = "provider_inactive"

	CodeTenantNotFound      = "tenant_not_found"
	CodeProviderNotFound    = "provider_not_found"
	CodeAppointmentNotFound = "appointment_not_found"

	CodeTimeConflict     = "time_conflict"
	CodeInvalidState     = "invalid_state"
	CodePlanLimitReached = "plan_limit_reached"
	CodeRateLimited      = "rate_limited"
)
