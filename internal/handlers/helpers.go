package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/agenda-engine/internal/usecase/appointment"
)

// operatorScope reads the tenant and user set by AuthMiddleware.
func operatorScope(c *gin.Context) ucAppointment.Scope {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)
	return ucAppointment.Scope{TenantID: tenantID, UserID: &userID}
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func uintQuery(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// intQuery returns def when the parameter is absent, and false when it is malformed.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func invalidRequest(c *gin.Context) {
	httperr.WriteBusiness(c, httperr.ErrBusiness(httperr.CodeInvalidRequest))
}
