package appointment

import (
	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
)

func NewCompleteAppointment(repo domain.Repository, audit *audit.Dispatcher, m *metrics.Metrics) *OperatorAction {
	return newOperatorAction(repo, audit, m, domain.TriggerOperatorComplete)
}

// NewMarkNoShow only applies to confirmed appointments; a booked one is invalid_state.
func NewMarkNoShow(repo domain.Repository, audit *audit.Dispatcher, m *metrics.Metrics) *OperatorAction {
	return newOperatorAction(repo, audit, m, domain.TriggerOperatorNoShow)
}
