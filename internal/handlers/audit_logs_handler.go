package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/httpresp"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogReader interface {
	List(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	reader AuditLogReader
}

func NewAuditLogsHandler(reader AuditLogReader) *AuditLogsHandler {
	return &AuditLogsHandler{reader: reader}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, ok1 := intQuery(c, "page", 1)
	limit, ok2 := intQuery(c, "limit", audit.DefaultPageSize)
	if !ok1 || !ok2 {
		invalidRequest(c)
		return
	}

	f := audit.Filter{
		TenantID: operatorScope(c).TenantID,
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		Page:     page,
		Limit:    limit,
	}

	// --------------------------------------------------
	// Intervalo por data (to inclusivo)
	// --------------------------------------------------

	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.DateOnly, v)
		if err != nil {
			httperr.WriteBusiness(c, httperr.ErrBusiness(httperr.CodeInvalidDateOrTime))
			return
		}
		f.From = from
	}

	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.DateOnly, v)
		if err != nil {
			httperr.WriteBusiness(c, httperr.ErrBusiness(httperr.CodeInvalidDateOrTime))
			return
		}
		f.To = to.AddDate(0, 0, 1)
	}

	f.Normalize()

	logs, total, err := h.reader.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, f.Page, f.Limit, total)
}
