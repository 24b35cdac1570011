package appointment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/notify"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// memRepo is an in-memory domain.Repository. The mutex plays the role of the
// storage exclusion constraint: overlap check and insert happen atomically.
type memRepo struct {
	mu sync.Mutex

	tenants   map[uint]*models.Tenant
	providers map[uint]*models.Provider
	hours     map[uint]map[int]models.WorkingHours
	clients   map[uint]*models.Client
	apps      map[uint]*models.Appointment
	nextID    uint

	// casLosses makes the next UpdateStatus calls lose the race after applying interfere.
	casLosses int
	interfere func(ap *models.Appointment)
}

func newMemRepo() *memRepo {
	return &memRepo{
		tenants:   map[uint]*models.Tenant{},
		providers: map[uint]*models.Provider{},
		hours:     map[uint]map[int]models.WorkingHours{},
		clients:   map[uint]*models.Client{},
		apps:      map[uint]*models.Appointment{},
	}
}

func (r *memRepo) id() uint {
	r.nextID++
	return r.nextID
}

func (r *memRepo) addTenant(t models.Tenant) *models.Tenant {
	r.tenants[t.ID] = &t
	return &t
}

func (r *memRepo) addProvider(p models.Provider) {
	r.providers[p.ID] = &p
}

func (r *memRepo) addHours(providerID uint, wh models.WorkingHours) {
	if r.hours[providerID] == nil {
		r.hours[providerID] = map[int]models.WorkingHours{}
	}
	wh.ProviderID = providerID
	r.hours[providerID][wh.Weekday] = wh
}

// seed stores an appointment directly, bypassing the overlap check.
func (r *memRepo) seed(ap models.Appointment) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap.ID = r.id()
	r.apps[ap.ID] = &ap
	return ap.ID
}

func (r *memRepo) status(id uint) domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apps[id].Status
}

func (r *memRepo) hydrate(ap models.Appointment) *models.Appointment {
	if c, ok := r.clients[ap.ClientID]; ok {
		ap.Client = *c
	}
	if p, ok := r.providers[ap.ProviderID]; ok {
		ap.Provider = *p
		if t, ok := r.tenants[p.TenantID]; ok {
			ap.Provider.Tenant = *t
		}
	}
	return &ap
}

func (r *memRepo) GetTenantByID(_ context.Context, id uint) (*models.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeTenantNotFound)
	}
	cp := *t
	return &cp, nil
}

func (r *memRepo) GetTenantBySlug(_ context.Context, slug string) (*models.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenants {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeTenantNotFound)
}

func (r *memRepo) GetProvider(_ context.Context, id uint) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeProviderNotFound)
	}
	cp := *p
	if t, ok := r.tenants[p.TenantID]; ok {
		cp.Tenant = *t
	}
	return &cp, nil
}

func (r *memRepo) GetWorkingHours(_ context.Context, providerID uint, weekday int) (*models.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wh, ok := r.hours[providerID][weekday]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (r *memRepo) GetOrCreateClient(_ context.Context, tenantID uint, name, phone, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.TenantID == tenantID && c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	c := &models.Client{ID: r.id(), TenantID: tenantID, Name: name, Phone: phone, Email: email}
	r.clients[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *memRepo) CreateIfNoConflict(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	candidate := domain.IntervalOf(ap)
	for _, other := range r.apps {
		if other.ProviderID != ap.ProviderID || !domain.BlocksTime(other.Status) {
			continue
		}
		if domain.Overlaps(candidate, domain.IntervalOf(other)) {
			return httperr.ErrBusiness(httperr.CodeTimeConflict)
		}
	}
	ap.ID = r.id()
	stored := *ap
	r.apps[ap.ID] = &stored
	return nil
}

func (r *memRepo) CountAppointmentsInPeriod(_ context.Context, tenantID uint, start, end time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, ap := range r.apps {
		if ap.TenantID == tenantID && ap.Status != domain.StatusCancelled &&
			!ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.apps[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	return r.hydrate(*ap), nil
}

func (r *memRepo) UpdateStatus(_ context.Context, ap *models.Appointment, from domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.apps[ap.ID]
	if !ok {
		return false, nil
	}
	if r.casLosses > 0 {
		r.casLosses--
		if r.interfere != nil {
			r.interfere(stored)
		}
	}
	if stored.Status != from {
		return false, nil
	}
	stored.Status = ap.Status
	stored.ConfirmedAt = ap.ConfirmedAt
	stored.CancelledAt = ap.CancelledAt
	stored.CompletedAt = ap.CompletedAt
	return true, nil
}

func (r *memRepo) FindActiveByPhone(_ context.Context, phone string, now time.Time) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.Appointment
	for _, ap := range r.apps {
		c, ok := r.clients[ap.ClientID]
		if !ok || c.Phone != phone {
			continue
		}
		if ap.Status != domain.StatusBooked && ap.Status != domain.StatusConfirmed {
			continue
		}
		if !ap.EndTime.After(now) {
			continue
		}
		if best == nil || ap.StartTime.Before(best.StartTime) {
			best = ap
		}
	}
	if best == nil {
		return nil, nil
	}
	return r.hydrate(*best), nil
}

func (r *memRepo) CompleteElapsed(_ context.Context, cutoff, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, ap := range r.apps {
		if (ap.Status == domain.StatusBooked || ap.Status == domain.StatusConfirmed) && ap.EndTime.Before(cutoff) {
			ap.Status = domain.StatusCompleted
			t := now
			ap.CompletedAt = &t
			n++
		}
	}
	return n, nil
}

func (r *memRepo) ListStartingBetween(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.apps {
		if (ap.Status == domain.StatusBooked || ap.Status == domain.StatusConfirmed) &&
			!ap.StartTime.Before(from) && ap.StartTime.Before(to) {
			out = append(out, *r.hydrate(*ap))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memRepo) ListBusy(_ context.Context, providerID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	window := domain.Interval{Start: start, End: end}
	var out []models.Appointment
	for _, ap := range r.apps {
		if ap.ProviderID == providerID && domain.BlocksTime(ap.Status) && domain.Overlaps(window, domain.IntervalOf(ap)) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *memRepo) ListAppointmentsForPeriod(_ context.Context, providerID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.apps {
		if ap.ProviderID == providerID && !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, *r.hydrate(*ap))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

var _ domain.Repository = (*memRepo)(nil)

// ---------------- notification fakes ----------------

type memLedger struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (l *memLedger) RegisterOnce(_ context.Context, id uint, typ string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == nil {
		l.seen = map[string]bool{}
	}
	k := fmt.Sprintf("%d/%s", id, typ)
	if l.seen[k] {
		return false, nil
	}
	l.seen[k] = true
	return true, nil
}

type memSender struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (s *memSender) Send(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *memSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// ---------------- fixture ----------------

const (
	tenantID   uint = 1
	otherTenID uint = 2
	providerID uint = 10
	lisbon          = "Europe/Lisbon"
)

// monday is 2024-06-10, Lisbon is UTC+1 that day.
var monday = timezone.Date{Year: 2024, Month: time.June, Day: 10}

type fixture struct {
	repo     *memRepo
	hours    *domain.WorkingHoursResolver
	sender   *memSender
	notifier *notify.Dispatcher
	loc      *time.Location
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newMemRepo()
	repo.nextID = 100
	repo.addTenant(models.Tenant{ID: tenantID, Slug: "studio", Timezone: "America/Sao_Paulo", MinAdvanceMinutes: 120})
	repo.addTenant(models.Tenant{ID: otherTenID, Slug: "other", MinAdvanceMinutes: 120})
	repo.addProvider(models.Provider{ID: providerID, TenantID: tenantID, Name: "Carla", Timezone: lisbon, Active: true})
	repo.addProvider(models.Provider{ID: 11, TenantID: tenantID, Name: "Inativo", Active: false})

	for wd := 1; wd <= 5; wd++ {
		repo.addHours(providerID, models.WorkingHours{Weekday: wd, StartTime: "09:00", EndTime: "18:00", Active: true})
	}
	// Tuesday has a lunch break
	repo.addHours(providerID, models.WorkingHours{Weekday: 2, StartTime: "09:00", EndTime: "18:00", LunchStart: "12:00", LunchEnd: "13:00", Active: true})

	loc, err := timezone.Load(lisbon)
	require.NoError(t, err)

	sender := &memSender{}
	return &fixture{
		repo:     repo,
		hours:    domain.NewWorkingHoursResolver(repo, nil),
		sender:   sender,
		notifier: notify.NewDispatcher(&memLedger{}, sender, nil, zerolog.Nop(), time.Second),
		loc:      loc,
		now:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) at(d timezone.Date, hhmm string) time.Time {
	c, err := timezone.ParseClock(hhmm)
	if err != nil {
		panic(err)
	}
	return timezone.ToInstantIn(d, c, f.loc)
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) createUC() *CreateAppointment {
	uc := NewCreateAppointment(f.repo, f.hours, nil, f.notifier, nil, timezone.DefaultTimezone)
	uc.now = f.clock
	return uc
}

func (f *fixture) booking(date timezone.Date, hhmm string, minutes int) CreateAppointmentInput {
	return CreateAppointmentInput{
		Scope:       Scope{TenantID: tenantID},
		ProviderID:  providerID,
		ClientName:  "Ana",
		ClientPhone: "+55 (11) 99999-0000",
		Date:        date.String(),
		Time:        hhmm,
		Duration:    minutes,
	}
}
