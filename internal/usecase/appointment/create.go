package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/notify"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
	"github.com/BruksfildServices01/agenda-engine/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Scope      Scope
	ProviderID uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	// Start is an RFC3339 instant. When empty, Date + Time are read in the provider's zone.
	Start string
	Date  string
	Time  string

	Duration    int
	ServiceName string
	Notes       string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo            domain.Repository
	hours           *domain.WorkingHoursResolver
	audit           *audit.Dispatcher
	notifier        *notify.Dispatcher
	metrics         *metrics.Metrics
	defaultTimezone string
	now             func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	hours *domain.WorkingHoursResolver,
	audit *audit.Dispatcher,
	notifier *notify.Dispatcher,
	m *metrics.Metrics,
	defaultTimezone string,
) *CreateAppointment {
	return &CreateAppointment{
		repo:            repo,
		hours:           hours,
		audit:           audit,
		notifier:        notifier,
		metrics:         m,
		defaultTimezone: defaultTimezone,
		now:             time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)
	switch {
	case err == nil:
		uc.metrics.ObserveBooking("created")
	case httperr.IsBusiness(err, httperr.CodeTimeConflict):
		uc.metrics.ObserveBooking("conflict")
	case httperr.CodeOf(err) != "":
		uc.metrics.ObserveBooking("rejected")
	default:
		uc.metrics.ObserveBooking("error")
	}
	return ap, err
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Entrada
	// --------------------------------------------------
	if !validDuration(in.Duration) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDuration)
	}

	phone := NormalizePhone(in.ClientPhone)
	name := strings.TrimSpace(in.ClientName)
	email, emailOK := validators.NormalizeEmail(in.ClientEmail)
	if phone == "" || name == "" || !emailOK {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	// --------------------------------------------------
	// 2️⃣ Profissional
	// --------------------------------------------------
	provider, err := providerInScope(ctx, uc.repo, in.Scope, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.Active {
		return nil, httperr.ErrBusiness(httperr.CodeProviderInactive)
	}

	loc, err := providerLocation(provider, uc.defaultTimezone)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Data / hora no timezone do profissional
	// --------------------------------------------------
	start, err := parseStart(in, loc)
	if err != nil {
		return nil, err
	}
	end := start.Add(time.Duration(in.Duration) * time.Minute)
	iv := domain.Interval{Start: start, End: end}

	// --------------------------------------------------
	// 4️⃣ Antecedência mínima
	// --------------------------------------------------
	now := uc.now()
	if start.Before(now.Add(minAdvance(&provider.Tenant))) {
		return nil, httperr.ErrBusiness(httperr.CodeTooSoon)
	}

	// --------------------------------------------------
	// 5️⃣ Working hours + almoço
	// --------------------------------------------------
	localDate, _ := timezone.ToLocalIn(start, loc)
	window, err := uc.hours.Resolve(ctx, provider.ID, localDate)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, httperr.ErrBusiness(httperr.CodeClosedDay)
	}
	if !window.Contains(iv, loc) {
		return nil, httperr.ErrBusiness(httperr.CodeOutsideWorkingHours)
	}

	// --------------------------------------------------
	// 6️⃣ Limite do plano
	// --------------------------------------------------
	if limit := provider.Tenant.MaxMonthlyAppointments; limit > 0 {
		monthStart := timezone.ToInstantIn(localDate.MonthStart(0), timezone.Clock{}, loc)
		monthEnd := timezone.ToInstantIn(localDate.MonthStart(1), timezone.Clock{}, loc)

		count, err := uc.repo.CountAppointmentsInPeriod(ctx, provider.TenantID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		if count >= int64(limit) {
			return nil, httperr.ErrBusiness(httperr.CodePlanLimitReached)
		}
	}

	// --------------------------------------------------
	// 7️⃣ Cliente (get or create)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		provider.TenantID,
		name,
		phone,
		email,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 8️⃣ Criação atômica (conflito decidido pelo banco)
	// --------------------------------------------------
	ap := &models.Appointment{
		TenantID:    provider.TenantID,
		ProviderID:  provider.ID,
		ClientID:    client.ID,
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
		Status:      domain.InitialStatus(),
		ServiceName: in.ServiceName,
		Notes:       in.Notes,
	}

	if err := uc.repo.CreateIfNoConflict(ctx, ap); err != nil {
		if httperr.IsBusiness(err, httperr.CodeTimeConflict) {
			uc.audit.Dispatch(audit.Event{
				TenantID: provider.TenantID,
				UserID:   in.Scope.UserID,
				Action:   "appointment_conflict",
				Entity:   "provider",
				EntityID: &provider.ID,
				Metadata: map[string]any{"start": start.UTC(), "end": end.UTC()},
			})
		}
		return nil, err
	}

	ap.Client = *client
	ap.Provider = *provider

	// --------------------------------------------------
	// 9️⃣ Auditoria + pedido de confirmação
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		TenantID: provider.TenantID,
		UserID:   in.Scope.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	if uc.notifier != nil {
		uc.notifier.DeliverAsync(ap.ID, notify.TypeConfirmationRequest, notify.Message{
			To:   client.Phone,
			Body: notify.ConfirmationRequest(client.Name, provider.Name, ap.StartTime, loc),
		})
	}

	return ap, nil
}

func parseStart(in CreateAppointmentInput, loc *time.Location) (time.Time, error) {
	if in.Start != "" {
		t, err := time.Parse(time.RFC3339, in.Start)
		if err != nil {
			return time.Time{}, httperr.ErrBusiness(httperr.CodeInvalidDateOrTime)
		}
		return t, nil
	}

	d, errD := timezone.ParseDate(in.Date)
	c, errC := timezone.ParseClock(in.Time)
	if errD != nil || errC != nil {
		return time.Time{}, httperr.ErrBusiness(httperr.CodeInvalidDateOrTime)
	}
	return timezone.ToInstantIn(d, c, loc), nil
}
