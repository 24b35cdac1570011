package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/notify"
)

type ReminderReport struct {
	Scanned   int `json:"scanned"`
	Sent      int `json:"sent"`
	Duplicate int `json:"duplicate"`
	Failed    int `json:"failed"`
}

// DispatchReminders sends one reminder per live appointment starting within the lead window.
// Re-running it sends nothing new: the ledger already holds every claimed pair.
type DispatchReminders struct {
	repo            domain.Repository
	notifier        *notify.Dispatcher
	lead            time.Duration
	defaultTimezone string
	log             zerolog.Logger
	now             func() time.Time
}

func NewDispatchReminders(
	repo domain.Repository,
	notifier *notify.Dispatcher,
	lead time.Duration,
	defaultTimezone string,
	log zerolog.Logger,
) *DispatchReminders {
	return &DispatchReminders{
		repo:            repo,
		notifier:        notifier,
		lead:            lead,
		defaultTimezone: defaultTimezone,
		log:             log,
		now:             time.Now,
	}
}

func (uc *DispatchReminders) Execute(ctx context.Context) (*ReminderReport, error) {
	now := uc.now()

	apps, err := uc.repo.ListStartingBetween(ctx, now, now.Add(uc.lead))
	if err != nil {
		return nil, err
	}

	report := &ReminderReport{Scanned: len(apps)}

	for i := range apps {
		ap := &apps[i]
		if ap.Client.Phone == "" {
			continue
		}

		loc, err := providerLocation(&ap.Provider, uc.defaultTimezone)
		if err != nil {
			report.Failed++
			uc.log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("reminder skipped: bad timezone")
			continue
		}

		sent, err := uc.notifier.Deliver(ctx, ap.ID, notify.TypeReminder, notify.Message{
			To:   ap.Client.Phone,
			Body: notify.Reminder(ap.Client.Name, ap.Provider.Name, ap.StartTime, loc),
		})
		switch {
		case err != nil:
			report.Failed++
			uc.log.Warn().Err(err).Uint("appointment_id", ap.ID).Msg("reminder not delivered")
		case sent:
			report.Sent++
		default:
			report.Duplicate++
		}
	}

	return report, nil
}
