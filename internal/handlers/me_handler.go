package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/middleware"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type TenantReader interface {
	GetTenantByID(ctx context.Context, id uint) (*models.Tenant, error)
}

type MeHandler struct {
	tenants TenantReader
}

func NewMeHandler(tenants TenantReader) *MeHandler {
	return &MeHandler{tenants: tenants}
}

// GetMe echoes the token identity with the tenant's scheduling settings.
func (h *MeHandler) GetMe(c *gin.Context) {
	scope := operatorScope(c)

	tenant, err := h.tenants.GetTenantByID(c.Request.Context(), scope.TenantID)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":   *scope.UserID,
			"role": c.GetString(middleware.ContextUserRole),
		},
		"tenant": gin.H{
			"id":                       tenant.ID,
			"name":                     tenant.Name,
			"slug":                     tenant.Slug,
			"timezone":                 tenant.Timezone,
			"min_advance_minutes":      tenant.MinAdvanceMinutes,
			"max_monthly_appointments": tenant.MaxMonthlyAppointments,
		},
	})
}
