package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/intent"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

func (f *fixture) seedWithClient(t *testing.T, phone string, start time.Time, status domain.Status) uint {
	t.Helper()
	c, err := f.repo.GetOrCreateClient(context.Background(), tenantID, "Ana", phone, "")
	require.NoError(t, err)
	return f.repo.seed(models.Appointment{
		TenantID: tenantID, ProviderID: providerID, ClientID: c.ID,
		StartTime: start, EndTime: start.Add(30 * time.Minute),
		Status: status,
	})
}

func (f *fixture) inboundUC() *HandleInboundMessage {
	uc := NewHandleInboundMessage(f.repo, nil, f.notifier, nil, zerolog.Nop(), timezone.DefaultTimezone)
	uc.t.now = f.clock
	return uc
}

func TestOperatorActions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booked := f.seedWithClient(t, "5511", f.at(monday, "09:00"), domain.StatusBooked)
	confirmed := f.seedWithClient(t, "5511", f.at(monday, "10:00"), domain.StatusConfirmed)
	completed := f.seedWithClient(t, "5511", f.at(monday, "11:00"), domain.StatusCompleted)

	t.Run("no-show needs a confirmed appointment", func(t *testing.T) {
		_, err := NewMarkNoShow(f.repo, nil, nil).Execute(ctx, tenantID, nil, booked)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))
		assert.Equal(t, domain.StatusBooked, f.repo.status(booked))

		ap, err := NewMarkNoShow(f.repo, nil, nil).Execute(ctx, tenantID, nil, confirmed)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNoShow, ap.Status)
	})

	t.Run("complete from booked", func(t *testing.T) {
		ap, err := NewCompleteAppointment(f.repo, nil, nil).Execute(ctx, tenantID, nil, booked)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, ap.Status)
		assert.NotNil(t, ap.CompletedAt)
	})

	t.Run("cancel on terminal is a no-op", func(t *testing.T) {
		ap, err := NewCancelAppointment(f.repo, nil, nil).Execute(ctx, tenantID, nil, completed)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, ap.Status)
		assert.Equal(t, domain.StatusCompleted, f.repo.status(completed))
	})

	t.Run("other tenant is forbidden", func(t *testing.T) {
		_, err := NewCancelAppointment(f.repo, nil, nil).Execute(ctx, otherTenID, nil, completed)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		_, err := NewCancelAppointment(f.repo, nil, nil).Execute(ctx, tenantID, nil, 424242)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))
	})
}

func TestTransitionRetriesAfterLostRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedWithClient(t, "5511", f.at(monday, "09:00"), domain.StatusBooked)

	// a concurrent cancel lands between our read and our write
	f.repo.casLosses = 1
	f.repo.interfere = func(ap *models.Appointment) { ap.Status = domain.StatusCancelled }

	res, err := f.inboundUC().Execute(ctx, InboundMessageInput{From: "5511", Text: "sim"})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	require.NotNil(t, res.Status)
	assert.Equal(t, domain.StatusCancelled, *res.Status)
	assert.Equal(t, domain.StatusCancelled, f.repo.status(id))
}

func TestInboundMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.inboundUC()

	id := f.seedWithClient(t, "5511999990000", f.at(monday, "09:00"), domain.StatusBooked)

	res, err := uc.Execute(ctx, InboundMessageInput{From: "+55 11 99999-0000", Text: "bom dia"})
	require.NoError(t, err)
	assert.Equal(t, intent.Unknown, res.Intent)
	assert.False(t, res.Changed)
	assert.Equal(t, domain.StatusBooked, f.repo.status(id))
	assert.True(t, res.ReplySent)

	res, err = uc.Execute(ctx, InboundMessageInput{From: "5511999990000", Text: "SIM"})
	require.NoError(t, err)
	assert.Equal(t, intent.Confirm, res.Intent)
	assert.True(t, res.Changed)
	assert.Equal(t, domain.StatusConfirmed, f.repo.status(id))
	assert.Contains(t, res.Reply, "confirmado")

	res, err = uc.Execute(ctx, InboundMessageInput{From: "5511999990000", Text: "ok"})
	require.NoError(t, err)
	assert.False(t, res.Changed, "confirming twice is a no-op")
	assert.Contains(t, res.Reply, "já estava confirmado")

	res, err = uc.Execute(ctx, InboundMessageInput{From: "5511999990000", Text: "Não"})
	require.NoError(t, err)
	assert.Equal(t, intent.Cancel, res.Intent)
	assert.True(t, res.Changed)
	assert.Equal(t, domain.StatusCancelled, f.repo.status(id))

	res, err = uc.Execute(ctx, InboundMessageInput{From: "5511999990000", Text: "quero cancelar"})
	require.NoError(t, err)
	assert.Nil(t, res.AppointmentID, "cancelled appointments are no longer active")
	assert.Equal(t, "Não encontramos nenhum horário ativo para este número.", res.Reply)

	assert.Equal(t, 5, f.sender.count(), "exactly one reply per inbound message")
}

func TestInboundPicksSoonestLiveAppointment(t *testing.T) {
	f := newFixture(t)
	later := f.seedWithClient(t, "5522", f.at(monday.AddDays(1), "09:00"), domain.StatusBooked)
	sooner := f.seedWithClient(t, "5522", f.at(monday, "09:00"), domain.StatusBooked)
	f.seedWithClient(t, "5522", f.now.Add(-24*time.Hour), domain.StatusBooked)

	res, err := f.inboundUC().Execute(context.Background(), InboundMessageInput{From: "5522", Text: "confirmo"})
	require.NoError(t, err)
	require.NotNil(t, res.AppointmentID)
	assert.Equal(t, sooner, *res.AppointmentID)
	assert.Equal(t, domain.StatusBooked, f.repo.status(later))
}

func TestInboundRequiresSender(t *testing.T) {
	f := newFixture(t)
	_, err := f.inboundUC().Execute(context.Background(), InboundMessageInput{From: "anon", Text: "sim"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
}
