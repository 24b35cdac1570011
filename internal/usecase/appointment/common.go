package appointment

import (
	"context"
	"strings"
	"time"
	"unicode"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

const (
	defaultMinAdvanceMinutes = 120
	defaultStepMinutes       = 15
	maxDurationMinutes       = 24 * 60
)

// Scope identifies who is asking: an operator token (TenantID) or a public page (TenantSlug).
type Scope struct {
	TenantID   uint
	TenantSlug string
	UserID     *uint
}

// NormalizePhone keeps digits only, so "+55 (11) 99999-0000" and "5511999990000" match.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// providerInScope loads a provider and checks it belongs to the caller's tenant.
func providerInScope(
	ctx context.Context,
	repo domain.Repository,
	scope Scope,
	providerID uint,
) (*models.Provider, error) {

	tenantID := scope.TenantID
	if scope.TenantSlug != "" {
		tenant, err := repo.GetTenantBySlug(ctx, scope.TenantSlug)
		if err != nil {
			return nil, err
		}
		tenantID = tenant.ID
	}

	provider, err := repo.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if provider.TenantID != tenantID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	return provider, nil
}

// providerLocation resolves provider -> tenant -> fallback.
func providerLocation(p *models.Provider, fallback string) (*time.Location, error) {
	return timezone.Load(timezone.Resolve(p.Timezone, p.Tenant.Timezone, fallback))
}

func minAdvance(t *models.Tenant) time.Duration {
	minutes := t.MinAdvanceMinutes
	if minutes <= 0 {
		minutes = defaultMinAdvanceMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func validDuration(minutes int) bool {
	return minutes > 0 && minutes <= maxDurationMinutes
}

func auditAction(s domain.Status) string {
	return "appointment_" + string(s)
}
