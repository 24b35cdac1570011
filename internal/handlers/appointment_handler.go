package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-engine/internal/dto"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/httpresp"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	ucAppointment "github.com/BruksfildServices01/agenda-engine/internal/usecase/appointment"
)

// ======================================================
// DEPENDENCIES
// ======================================================

type AvailabilityFinder interface {
	Execute(ctx context.Context, in ucAppointment.AvailabilityInput) (*ucAppointment.Availability, error)
}

type AppointmentCreator interface {
	Execute(ctx context.Context, in ucAppointment.CreateAppointmentInput) (*models.Appointment, error)
}

type AppointmentLister interface {
	ByDate(ctx context.Context, tenantID, providerID uint, date string) ([]dto.AppointmentListDTO, error)
	ByMonth(ctx context.Context, tenantID, providerID uint, year, month int) ([]dto.AppointmentListDTO, error)
}

// StatusChanger is one operator action (cancel, complete, no-show).
type StatusChanger interface {
	Execute(ctx context.Context, tenantID uint, userID *uint, appointmentID uint) (*models.Appointment, error)
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	availability AvailabilityFinder
	create       AppointmentCreator
	list         AppointmentLister
	cancel       StatusChanger
	complete     StatusChanger
	noShow       StatusChanger
}

func NewAppointmentHandler(
	availability AvailabilityFinder,
	create AppointmentCreator,
	list AppointmentLister,
	cancel StatusChanger,
	complete StatusChanger,
	noShow StatusChanger,
) *AppointmentHandler {
	return &AppointmentHandler{
		availability: availability,
		create:       create,
		list:         list,
		cancel:       cancel,
		complete:     complete,
		noShow:       noShow,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProviderID  uint   `json:"provider_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`

	// either start (RFC3339) or date + time in the provider's zone
	Start string `json:"start"`
	Date  string `json:"date"`
	Time  string `json:"time"`

	DurationMinutes int    `json:"duration_minutes" binding:"required"`
	ServiceName     string `json:"service_name"`
	Notes           string `json:"notes"`
}

func (r CreateAppointmentRequest) input(scope ucAppointment.Scope, providerID uint) ucAppointment.CreateAppointmentInput {
	return ucAppointment.CreateAppointmentInput{
		Scope:       scope,
		ProviderID:  providerID,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ClientEmail: r.ClientEmail,
		Start:       r.Start,
		Date:        r.Date,
		Time:        r.Time,
		Duration:    r.DurationMinutes,
		ServiceName: r.ServiceName,
		Notes:       r.Notes,
	}
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	providerID, ok := uintParam(c, "providerId")
	if !ok {
		invalidRequest(c)
		return
	}

	writeAvailability(c, h.availability, operatorScope(c), providerID)
}

// writeAvailability is shared by the operator and public routes.
func writeAvailability(c *gin.Context, uc AvailabilityFinder, scope ucAppointment.Scope, providerID uint) {
	date := c.Query("date")
	if date == "" {
		httperr.WriteBusiness(c, httperr.ErrBusiness(httperr.CodeInvalidDateOrTime))
		return
	}

	duration, ok1 := intQuery(c, "duration", 0)
	step, ok2 := intQuery(c, "step", 0)
	if !ok1 || !ok2 {
		httperr.WriteBusiness(c, httperr.ErrBusiness(httperr.CodeInvalidDuration))
		return
	}

	res, err := uc.Execute(c.Request.Context(), ucAppointment.AvailabilityInput{
		Scope:      scope,
		ProviderID: providerID,
		Date:       date,
		Duration:   duration,
		Step:       step,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), req.input(operatorScope(c), req.ProviderID))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	providerID, ok := uintQuery(c, "provider_id")
	if !ok {
		invalidRequest(c)
		return
	}

	items, err := h.list.ByDate(
		c.Request.Context(),
		operatorScope(c).TenantID,
		providerID,
		c.Query("date"),
	)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	providerID, ok := uintQuery(c, "provider_id")
	year, ok1 := intQuery(c, "year", 0)
	month, ok2 := intQuery(c, "month", 0)
	if !ok || !ok1 || !ok2 {
		invalidRequest(c)
		return
	}

	items, err := h.list.ByMonth(
		c.Request.Context(),
		operatorScope(c).TenantID,
		providerID,
		year,
		month,
	)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// STATUS ACTIONS
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.changeStatus(c, h.cancel)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.changeStatus(c, h.complete)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.changeStatus(c, h.noShow)
}

func (h *AppointmentHandler) changeStatus(c *gin.Context, uc StatusChanger) {
	id, ok := uintParam(c, "id")
	if !ok {
		invalidRequest(c)
		return
	}

	scope := operatorScope(c)
	ap, err := uc.Execute(c.Request.Context(), scope.TenantID, scope.UserID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, ap)
}
