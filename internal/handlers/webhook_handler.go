package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/ratelimit"
	ucAppointment "github.com/BruksfildServices01/agenda-engine/internal/usecase/appointment"
)

type InboundHandler interface {
	Execute(ctx context.Context, in ucAppointment.InboundMessageInput) (*ucAppointment.InboundMessageResult, error)
}

type WebhookHandler struct {
	inbound InboundHandler
	limiter ratelimit.Limiter
	log     zerolog.Logger
}

func NewWebhookHandler(inbound InboundHandler, limiter ratelimit.Limiter, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{inbound: inbound, limiter: limiter, log: log}
}

type InboundMessageRequest struct {
	From string `json:"from" binding:"required"`
	Text string `json:"text"`
}

// Inbound handles a customer reply relayed by the messaging provider. The limit is
// per sender, so one noisy number cannot starve the others.
func (h *WebhookHandler) Inbound(c *gin.Context) {
	var req InboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	phone := ucAppointment.NormalizePhone(req.From)
	if phone == "" {
		invalidRequest(c)
		return
	}

	if h.limiter != nil {
		ok, err := h.limiter.Allow(c.Request.Context(), phone)
		if err != nil {
			h.log.Warn().Err(err).Msg("inbound rate limiter unavailable")
		} else if !ok {
			httperr.WriteBusiness(c, httperr.ErrBusiness(httperr.CodeRateLimited))
			return
		}
	}

	res, err := h.inbound.Execute(c.Request.Context(), ucAppointment.InboundMessageInput{
		From: phone,
		Text: req.Text,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
