package appointment

import (
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status = models.AppointmentStatus

const (
	StatusBooked    = models.StatusBooked
	StatusConfirmed = models.StatusConfirmed
	StatusCancelled = models.StatusCancelled
	StatusCompleted = models.StatusCompleted
	StatusNoShow    = models.StatusNoShow
)

// Trigger is what asks for a status change.
type Trigger string

const (
	TriggerConfirmIntent    Trigger = "confirm_intent"
	TriggerCancelIntent     Trigger = "cancel_intent"
	TriggerOperatorCancel   Trigger = "operator_cancel"
	TriggerOperatorComplete Trigger = "operator_complete"
	TriggerOperatorNoShow   Trigger = "operator_no_show"
	TriggerTimeElapsed      Trigger = "time_elapsed"
)

type rule struct {
	from []Status
	to   Status
}

var rules = map[Trigger]rule{
	TriggerConfirmIntent:    {from: []Status{StatusBooked}, to: StatusConfirmed},
	TriggerCancelIntent:     {from: []Status{StatusBooked, StatusConfirmed}, to: StatusCancelled},
	TriggerOperatorCancel:   {from: []Status{StatusBooked, StatusConfirmed}, to: StatusCancelled},
	TriggerOperatorComplete: {from: []Status{StatusBooked, StatusConfirmed}, to: StatusCompleted},
	TriggerOperatorNoShow:   {from: []Status{StatusConfirmed}, to: StatusNoShow},
	TriggerTimeElapsed:      {from: []Status{StatusBooked, StatusConfirmed}, to: StatusCompleted},
}

// InitialStatus is the status every new appointment is created with.
func InitialStatus() Status {
	return StatusBooked
}

func IsTerminal(s Status) bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// BlocksTime reports whether an appointment in status s occupies its interval.
func BlocksTime(s Status) bool {
	return s != StatusCancelled
}

// Transition returns the status reached from current under trigger.
// Terminal states and repeats of the target state are no-ops (changed == false, nil error).
// A defined trigger that does not apply to a live state is invalid_state.
func Transition(current Status, trigger Trigger) (next Status, changed bool, err error) {
	r, ok := rules[trigger]
	if !ok {
		return current, false, httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	if IsTerminal(current) || current == r.to {
		return current, false, nil
	}
	for _, from := range r.from {
		if from == current {
			return r.to, true, nil
		}
	}
	return current, false, httperr.ErrBusiness(httperr.CodeInvalidState)
}
