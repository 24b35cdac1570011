package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/dto"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

type ListAppointments struct {
	repo            domain.Repository
	defaultTimezone string
}

func NewListAppointments(
	repo domain.Repository,
	defaultTimezone string,
) *ListAppointments {
	return &ListAppointments{
		repo:            repo,
		defaultTimezone: defaultTimezone,
	}
}

// ByDate lists a provider's appointments starting on a local date.
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	tenantID uint,
	providerID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	d, err := timezone.ParseDate(date)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDateOrTime)
	}

	return uc.list(ctx, tenantID, providerID, func(loc *time.Location) (time.Time, time.Time) {
		return timezone.ToInstantIn(d, timezone.Clock{}, loc),
			timezone.ToInstantIn(d.AddDays(1), timezone.Clock{}, loc)
	})
}

// ByMonth lists a provider's appointments starting in a local calendar month.
func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	tenantID uint,
	providerID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 1 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDateOrTime)
	}
	first := timezone.Date{Year: year, Month: time.Month(month), Day: 1}

	return uc.list(ctx, tenantID, providerID, func(loc *time.Location) (time.Time, time.Time) {
		return timezone.ToInstantIn(first, timezone.Clock{}, loc),
			timezone.ToInstantIn(first.MonthStart(1), timezone.Clock{}, loc)
	})
}

func (uc *ListAppointments) list(
	ctx context.Context,
	tenantID uint,
	providerID uint,
	period func(loc *time.Location) (time.Time, time.Time),
) ([]dto.AppointmentListDTO, error) {

	provider, err := providerInScope(ctx, uc.repo, Scope{TenantID: tenantID}, providerID)
	if err != nil {
		return nil, err
	}

	loc, err := providerLocation(provider, uc.defaultTimezone)
	if err != nil {
		return nil, err
	}

	start, end := period(loc)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		provider.ID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		date, from := timezone.ToLocalIn(ap.StartTime, loc)
		_, to := timezone.ToLocalIn(ap.EndTime, loc)

		out = append(out, dto.AppointmentListDTO{
			ID:          ap.ID,
			ProviderID:  ap.ProviderID,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			LocalDate:   date.String(),
			LocalStart:  from.String(),
			LocalEnd:    to.String(),
			Status:      string(ap.Status),
			ClientName:  ap.Client.Name,
			ClientPhone: ap.Client.Phone,
			ServiceName: ap.ServiceName,
			Notes:       ap.Notes,
		})
	}

	return out, nil
}
