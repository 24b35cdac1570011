package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// casAttempts bounds how often a transition is re-evaluated after losing a race.
const casAttempts = 2

type transitioner struct {
	repo    domain.Repository
	metrics *metrics.Metrics
	now     func() time.Time
}

// apply evaluates trigger against ap and persists the result with a compare-and-set
// on the status it was read with. When another writer got there first, ap is
// reloaded and the trigger evaluated again on the fresh state.
func (t *transitioner) apply(
	ctx context.Context,
	ap *models.Appointment,
	trigger domain.Trigger,
) (bool, error) {

	for attempt := 0; attempt < casAttempts; attempt++ {
		from := ap.Status
		candidate := *ap

		changed, err := domain.Apply(&candidate, trigger, t.now())
		if err != nil || !changed {
			return false, err
		}

		ok, err := t.repo.UpdateStatus(ctx, &candidate, from)
		if err != nil {
			return false, err
		}
		if ok {
			*ap = candidate
			t.metrics.ObserveTransition(string(trigger), string(ap.Status))
			return true, nil
		}

		fresh, err := t.repo.GetAppointment(ctx, ap.ID)
		if err != nil {
			return false, err
		}
		*ap = *fresh
	}

	return false, nil
}
