package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// OperatorAction applies one operator trigger (cancel, complete, no-show) to an appointment
// of the operator's tenant. Terminal appointments are returned unchanged.
type OperatorAction struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	trigger domain.Trigger
	t       *transitioner
}

func newOperatorAction(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	trigger domain.Trigger,
) *OperatorAction {
	return &OperatorAction{
		repo:    repo,
		audit:   audit,
		trigger: trigger,
		t:       &transitioner{repo: repo, metrics: m, now: time.Now},
	}
}

func NewCancelAppointment(repo domain.Repository, audit *audit.Dispatcher, m *metrics.Metrics) *OperatorAction {
	return newOperatorAction(repo, audit, m, domain.TriggerOperatorCancel)
}

func (uc *OperatorAction) Execute(
	ctx context.Context,
	tenantID uint,
	userID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if ap.TenantID != tenantID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	changed, err := uc.t.apply(ctx, ap, uc.trigger)
	if err != nil {
		return nil, err
	}

	if changed {
		uc.audit.Dispatch(audit.Event{
			TenantID: tenantID,
			UserID:   userID,
			Action:   auditAction(ap.Status),
			Entity:   "appointment",
			EntityID: &ap.ID,
		})
	}

	return ap, nil
}
