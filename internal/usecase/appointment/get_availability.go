package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

type AvailabilityInput struct {
	Scope      Scope
	ProviderID uint
	Date       string
	Duration   int
	Step       int
}

type Availability struct {
	Date     string        `json:"date"`
	Timezone string        `json:"timezone"`
	Closed   bool          `json:"closed"`
	Open     string        `json:"open,omitempty"`
	Close    string        `json:"close,omitempty"`
	Slots    []domain.Slot `json:"slots"`
}

type GetAvailability struct {
	repo            domain.Repository
	hours           *domain.WorkingHoursResolver
	defaultTimezone string
	now             func() time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	hours *domain.WorkingHoursResolver,
	defaultTimezone string,
) *GetAvailability {
	return &GetAvailability{
		repo:            repo,
		hours:           hours,
		defaultTimezone: defaultTimezone,
		now:             time.Now,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*Availability, error) {

	if in.Step == 0 {
		in.Step = defaultStepMinutes
	}
	if !validDuration(in.Duration) || in.Step < 0 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDuration)
	}

	provider, err := providerInScope(ctx, uc.repo, in.Scope, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.Active {
		return nil, httperr.ErrBusiness(httperr.CodeProviderInactive)
	}

	date, err := timezone.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDateOrTime)
	}

	loc, err := providerLocation(provider, uc.defaultTimezone)
	if err != nil {
		return nil, err
	}

	out := &Availability{
		Date:     date.String(),
		Timezone: loc.String(),
		Slots:    []domain.Slot{},
	}

	window, err := uc.hours.Resolve(ctx, provider.ID, date)
	if err != nil {
		return nil, err
	}
	if window == nil {
		out.Closed = true
		return out, nil
	}

	day := window.Instants(loc)
	out.Open = window.Open.String()
	out.Close = window.Close.String()

	existing, err := uc.repo.ListBusy(ctx, provider.ID, day.Start, day.End)
	if err != nil {
		return nil, err
	}

	busy := make([]domain.Interval, 0, len(existing)+1)
	for i := range existing {
		busy = append(busy, domain.IntervalOf(&existing[i]))
	}
	if lunch := window.Lunch(loc); lunch != nil {
		busy = append(busy, *lunch)
	}

	out.Slots = domain.CollectSlots(domain.SlotRequest{
		Open:      day.Start,
		Close:     day.End,
		Duration:  time.Duration(in.Duration) * time.Minute,
		Step:      time.Duration(in.Step) * time.Minute,
		Busy:      busy,
		Location:  loc,
		NotBefore: uc.now().Add(minAdvance(&provider.Tenant)),
	})

	return out, nil
}
