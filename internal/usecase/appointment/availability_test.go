package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

func (f *fixture) availabilityUC() *GetAvailability {
	uc := NewGetAvailability(f.repo, f.hours, timezone.DefaultTimezone)
	uc.now = f.clock
	return uc
}

func slotLabels(slots []domain.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Label
	}
	return out
}

func TestAvailabilityAroundExistingReservation(t *testing.T) {
	f := newFixture(t)
	f.repo.seed(models.Appointment{
		TenantID: tenantID, ProviderID: providerID,
		StartTime: f.at(monday, "10:00"), EndTime: f.at(monday, "10:30"),
		Status: domain.StatusBooked,
	})

	got, err := f.availabilityUC().Execute(context.Background(), AvailabilityInput{
		Scope: Scope{TenantID: tenantID}, ProviderID: providerID,
		Date: "2024-06-10", Duration: 30, Step: 15,
	})
	require.NoError(t, err)

	assert.False(t, got.Closed)
	assert.Equal(t, "Europe/Lisbon", got.Timezone)
	assert.Equal(t, "09:00", got.Open)
	assert.Equal(t, "18:00", got.Close)

	labels := slotLabels(got.Slots)
	assert.Equal(t, []string{"09:00", "09:15", "09:30", "10:30", "10:45"}, labels[:5])
	assert.NotContains(t, labels, "09:45")
	assert.NotContains(t, labels, "10:00")
	assert.NotContains(t, labels, "10:15")
	assert.Equal(t, "17:30", labels[len(labels)-1])
	assert.Equal(t, f.at(monday, "09:00"), got.Slots[0].Start)
}

func TestAvailabilityIgnoresCancelledAndUsesLunch(t *testing.T) {
	f := newFixture(t)
	tuesday := monday.AddDays(1)
	f.repo.seed(models.Appointment{
		TenantID: tenantID, ProviderID: providerID,
		StartTime: f.at(tuesday, "09:00"), EndTime: f.at(tuesday, "10:00"),
		Status: domain.StatusCancelled,
	})

	got, err := f.availabilityUC().Execute(context.Background(), AvailabilityInput{
		Scope: Scope{TenantSlug: "studio"}, ProviderID: providerID,
		Date: tuesday.String(), Duration: 60,
	})
	require.NoError(t, err)

	labels := slotLabels(got.Slots)
	assert.Contains(t, labels, "09:00")
	assert.Contains(t, labels, "11:00")
	assert.NotContains(t, labels, "11:15")
	assert.NotContains(t, labels, "12:00")
	assert.NotContains(t, labels, "12:45")
	assert.Contains(t, labels, "13:00")
	assert.Contains(t, labels, "09:15", "step defaults to 15 minutes")
}

func TestAvailabilityClosedDay(t *testing.T) {
	f := newFixture(t)
	sunday := monday.AddDays(-1)

	got, err := f.availabilityUC().Execute(context.Background(), AvailabilityInput{
		Scope: Scope{TenantID: tenantID}, ProviderID: providerID,
		Date: sunday.String(), Duration: 30, Step: 15,
	})
	require.NoError(t, err)
	assert.True(t, got.Closed)
	assert.NotNil(t, got.Slots)
	assert.Empty(t, got.Slots)
}

func TestAvailabilityHidesSlotsInsideMinAdvance(t *testing.T) {
	f := newFixture(t)
	f.now = f.at(monday, "09:00")

	got, err := f.availabilityUC().Execute(context.Background(), AvailabilityInput{
		Scope: Scope{TenantID: tenantID}, ProviderID: providerID,
		Date: monday.String(), Duration: 30, Step: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "11:00", got.Slots[0].Label)
}

func TestAvailabilityRejections(t *testing.T) {
	f := newFixture(t)
	uc := f.availabilityUC()
	ctx := context.Background()

	cases := []struct {
		name string
		in   AvailabilityInput
		code string
	}{
		{"zero duration", AvailabilityInput{Scope: Scope{TenantID: tenantID}, ProviderID: providerID, Date: "2024-06-10"}, httperr.CodeInvalidDuration},
		{"negative step", AvailabilityInput{Scope: Scope{TenantID: tenantID}, ProviderID: providerID, Date: "2024-06-10", Duration: 30, Step: -5}, httperr.CodeInvalidDuration},
		{"bad date", AvailabilityInput{Scope: Scope{TenantID: tenantID}, ProviderID: providerID, Date: "10/06/2024", Duration: 30}, httperr.CodeInvalidDateOrTime},
		{"other tenant", AvailabilityInput{Scope: Scope{TenantID: otherTenID}, ProviderID: providerID, Date: "2024-06-10", Duration: 30}, httperr.CodeForbidden},
		{"unknown slug", AvailabilityInput{Scope: Scope{TenantSlug: "nope"}, ProviderID: providerID, Date: "2024-06-10", Duration: 30}, httperr.CodeTenantNotFound},
		{"unknown provider", AvailabilityInput{Scope: Scope{TenantID: tenantID}, ProviderID: 999, Date: "2024-06-10", Duration: 30}, httperr.CodeProviderNotFound},
		{"inactive provider", AvailabilityInput{Scope: Scope{TenantID: tenantID}, ProviderID: 11, Date: "2024-06-10", Duration: 30}, httperr.CodeProviderInactive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tc.in)
			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}
