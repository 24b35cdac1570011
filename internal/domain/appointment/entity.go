package appointment

import (
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Apply runs trigger against ap and stamps the matching timestamp on change.
func Apply(ap *models.Appointment, trigger Trigger, now time.Time) (bool, error) {
	next, changed, err := Transition(ap.Status, trigger)
	if err != nil || !changed {
		return false, err
	}

	ap.Status = next
	switch next {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted, StatusNoShow:
		ap.CompletedAt = &now
	}
	return true, nil
}

func Cancel(ap *models.Appointment, now time.Time) (bool, error) {
	return Apply(ap, TriggerOperatorCancel, now)
}

func Complete(ap *models.Appointment, now time.Time) (bool, error) {
	return Apply(ap, TriggerOperatorComplete, now)
}

func IntervalOf(ap *models.Appointment) Interval {
	return Interval{Start: ap.StartTime, End: ap.EndTime}
}
