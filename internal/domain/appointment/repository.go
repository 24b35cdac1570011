package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type Repository interface {
	WorkingHoursReader

	// -------- Tenant / Provider --------
	GetTenantByID(ctx context.Context, id uint) (*models.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	GetProvider(ctx context.Context, id uint) (*models.Provider, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		tenantID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment (create / conflict) --------

	// CreateIfNoConflict checks for overlapping live appointments and inserts ap in one
	// transaction. The overlap check only gives a fast answer; the storage exclusion
	// constraint decides races. Both surface as the time_conflict business error.
	CreateIfNoConflict(ctx context.Context, ap *models.Appointment) error

	CountAppointmentsInPeriod(
		ctx context.Context,
		tenantID uint,
		start time.Time,
		end time.Time,
	) (int64, error)

	// -------- Appointment (state change) --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	// UpdateStatus writes ap's status and timestamps only if the row still holds from.
	// It reports false when another writer moved the row first.
	UpdateStatus(ctx context.Context, ap *models.Appointment, from Status) (bool, error)

	// FindActiveByPhone returns the next live appointment (booked or confirmed, not yet
	// ended) for a customer phone, or nil.
	FindActiveByPhone(ctx context.Context, phone string, now time.Time) (*models.Appointment, error)

	// CompleteElapsed moves every booked/confirmed appointment ending before cutoff to completed.
	CompleteElapsed(ctx context.Context, cutoff time.Time, now time.Time) (int64, error)

	// ListStartingBetween returns live appointments starting in [from, to) with client and provider loaded.
	ListStartingBetween(ctx context.Context, from time.Time, to time.Time) ([]models.Appointment, error)

	// -------- Availability --------

	// ListBusy returns live appointments of the provider overlapping [start, end).
	ListBusy(
		ctx context.Context,
		providerID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		providerID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
