package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

type WorkingHoursStore interface {
	GetProvider(ctx context.Context, id uint) (*models.Provider, error)
	ListWorkingHours(ctx context.Context, providerID uint) ([]models.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, providerID uint, rules []models.WorkingHours) error
}

type WorkingHoursHandler struct {
	store WorkingHoursStore
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(store WorkingHoursStore, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{store: store, audit: audit}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

// WorkingHoursUpdateRequest carries the whole week. A weekday without a row would
// fall back to the default window, so closed days must be sent as inactive.
type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,len=7,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	provider, ok := h.ownedProvider(c)
	if !ok {
		return
	}

	hours, err := h.store.ListWorkingHours(c.Request.Context(), provider.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_working_hours", "Erro ao buscar horários.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	provider, ok := h.ownedProvider(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	seen := make(map[int]bool, len(req.Days))
	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] || !validDay(d) {
			httperr.BadRequest(c, "invalid_working_hours", "Horário de atendimento inválido.")
			return
		}
		seen[d.Weekday] = true

		toCreate = append(toCreate, models.WorkingHours{
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}

	if err := h.store.ReplaceWorkingHours(c.Request.Context(), provider.ID, toCreate); err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Erro ao salvar horários.")
		return
	}

	scope := operatorScope(c)
	h.audit.Dispatch(audit.Event{
		TenantID: scope.TenantID,
		UserID:   scope.UserID,
		Action:   "working_hours_updated",
		Entity:   "provider",
		EntityID: &provider.ID,
		Metadata: map[string]any{"days": len(toCreate)},
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WorkingHoursHandler) ownedProvider(c *gin.Context) (*models.Provider, bool) {
	providerID, ok := uintParam(c, "providerId")
	if !ok {
		invalidRequest(c)
		return nil, false
	}

	provider, err := h.store.GetProvider(c.Request.Context(), providerID)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return nil, false
	}
	if provider.TenantID != operatorScope(c).TenantID {
		httperr.WriteBusiness(c, httperr.ErrBusiness(httperr.CodeForbidden))
		return nil, false
	}
	return provider, true
}

// validDay accepts an inactive day as-is. An active day needs open < close, and an
// optional lunch break that lies inside the window.
func validDay(d WorkingDayConfig) bool {
	if !d.Active {
		return true
	}

	open, err1 := timezone.ParseClock(d.StartTime)
	closing, err2 := timezone.ParseClock(d.EndTime)
	if err1 != nil || err2 != nil || !open.Before(closing) {
		return false
	}

	if d.LunchStart == "" && d.LunchEnd == "" {
		return true
	}
	ls, err1 := timezone.ParseClock(d.LunchStart)
	le, err2 := timezone.ParseClock(d.LunchEnd)
	if err1 != nil || err2 != nil || !ls.Before(le) {
		return false
	}
	return !ls.Before(open) && !closing.Before(le)
}
