package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
)

// CompleteElapsed moves booked/confirmed appointments that ended more than grace ago to completed.
type CompleteElapsed struct {
	repo    domain.Repository
	grace   time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewCompleteElapsed(repo domain.Repository, grace time.Duration, m *metrics.Metrics) *CompleteElapsed {
	return &CompleteElapsed{repo: repo, grace: grace, metrics: m, now: time.Now}
}

func (uc *CompleteElapsed) Execute(ctx context.Context) (int64, error) {
	now := uc.now().UTC()

	n, err := uc.repo.CompleteElapsed(ctx, now.Add(-uc.grace), now)
	if err != nil {
		return 0, err
	}

	uc.metrics.AddTransitions(string(domain.TriggerTimeElapsed), string(domain.StatusCompleted), n)
	return n, nil
}
