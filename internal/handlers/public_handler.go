package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/httpresp"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	ucAppointment "github.com/BruksfildServices01/agenda-engine/internal/usecase/appointment"
)

// ProviderDirectory lists the active providers of a tenant page.
type ProviderDirectory interface {
	ActiveProvidersBySlug(ctx context.Context, slug string) ([]models.Provider, error)
}

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	directory    ProviderDirectory
	availability AvailabilityFinder
	create       AppointmentCreator
}

func NewPublicHandler(
	directory ProviderDirectory,
	availability AvailabilityFinder,
	create AppointmentCreator,
) *PublicHandler {
	return &PublicHandler{
		directory:    directory,
		availability: availability,
		create:       create,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ProviderID  uint   `json:"provider_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm

	DurationMinutes int    `json:"duration_minutes" binding:"required"`
	ServiceName     string `json:"service_name"`
	Notes           string `json:"notes"`
}

type publicProvider struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

////////////////////////////////////////////////////////
// PROVIDERS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListProviders(c *gin.Context) {
	providers, err := h.directory.ActiveProvidersBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	out := make([]publicProvider, 0, len(providers))
	for _, p := range providers {
		out = append(out, publicProvider{ID: p.ID, Name: p.Name})
	}

	httpresp.List(c, out)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	providerID, ok := uintParam(c, "providerId")
	if !ok {
		invalidRequest(c)
		return
	}

	writeAvailability(c, h.availability, ucAppointment.Scope{TenantSlug: c.Param("slug")}, providerID)
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.create.Execute(
		c.Request.Context(),
		ucAppointment.CreateAppointmentInput{
			Scope:       ucAppointment.Scope{TenantSlug: c.Param("slug")},
			ProviderID:  req.ProviderID,
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			ClientEmail: req.ClientEmail,
			Date:        req.Date,
			Time:        req.Time,
			Duration:    req.DurationMinutes,
			ServiceName: req.ServiceName,
			Notes:       req.Notes,
		},
	)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}
