package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	ucAppointment "github.com/BruksfildServices01/agenda-engine/internal/usecase/appointment"
)

// Lock keys shared by every replica.
const (
	KeyReminders  = "reminder-dispatch"
	KeyCompletion = "completion-sweep"
)

type Locker interface {
	Run(ctx context.Context, key string, fn func(ctx context.Context) error) (bool, error)
}

type ReminderJob interface {
	Execute(ctx context.Context) (*ucAppointment.ReminderReport, error)
}

type CompletionJob interface {
	Execute(ctx context.Context) (int64, error)
}

type Result struct {
	Job       string                        `json:"job"`
	Skipped   bool                          `json:"skipped"`
	Reminders *ucAppointment.ReminderReport `json:"reminders,omitempty"`
	Completed int64                         `json:"completed"`
}

type Runner struct {
	locker     Locker
	reminders  ReminderJob
	completion CompletionJob
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

func NewRunner(
	locker Locker,
	reminders ReminderJob,
	completion CompletionJob,
	m *metrics.Metrics,
	log zerolog.Logger,
) *Runner {
	return &Runner{
		locker:     locker,
		reminders:  reminders,
		completion: completion,
		metrics:    m,
		log:        log,
	}
}

func (r *Runner) Reminders(ctx context.Context) (*Result, error) {
	res := &Result{Job: KeyReminders}
	err := r.guarded(ctx, res, func(ctx context.Context) error {
		report, err := r.reminders.Execute(ctx)
		res.Reminders = report
		return err
	})
	return res, err
}

func (r *Runner) Complete(ctx context.Context) (*Result, error) {
	res := &Result{Job: KeyCompletion}
	err := r.guarded(ctx, res, func(ctx context.Context) error {
		n, err := r.completion.Execute(ctx)
		res.Completed = n
		return err
	})
	return res, err
}

func (r *Runner) guarded(ctx context.Context, res *Result, fn func(ctx context.Context) error) error {
	start := time.Now()

	ran, err := r.locker.Run(ctx, res.Job, fn)
	res.Skipped = !ran

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		r.log.Error().Err(err).Str("job", res.Job).Msg("batch job failed")
	case !ran:
		outcome = "skipped"
		r.log.Info().Str("job", res.Job).Msg("batch job already running elsewhere")
	default:
		r.log.Info().
			Str("job", res.Job).
			Int64("completed", res.Completed).
			Dur("duration", time.Since(start)).
			Msg("batch job finished")
	}
	r.metrics.ObserveJob(res.Job, outcome, time.Since(start).Seconds())

	return err
}

// Loop triggers both jobs every interval until ctx is done.
func (r *Runner) Loop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = r.Complete(ctx)
			_, _ = r.Reminders(ctx)
		}
	}
}
