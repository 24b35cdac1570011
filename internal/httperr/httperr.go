package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

type mapping struct {
	status  int
	message string
}

var businessMappings = map[string]mapping{
	CodeInvalidRequest:      {http.StatusBadRequest, "Dados inválidos."},
	CodeInvalidDateOrTime:   {http.StatusBadRequest, "Data ou hora inválida."},
	CodeInvalidDuration:     {http.StatusBadRequest, "Duração inválida."},
	CodeTooSoon:             {http.StatusBadRequest, "Horário muito próximo."},
	CodeOutsideWorkingHours: {http.StatusBadRequest, "Fora do horário de atendimento."},
	CodeClosedDay:           {http.StatusBadRequest, "Sem atendimento nesta data."},

	CodeForbidden:        {http.StatusForbidden, "Acesso negado."},
	CodeProviderInactive: {http.StatusForbidden, "Profissional inativo."},

	CodeTenantNotFound:      {http.StatusNotFound, "Estabelecimento não encontrado."},
	CodeProviderNotFound:    {http.StatusNotFound, "Profissional não encontrado."},
	CodeAppointmentNotFound: {http.StatusNotFound, "Agendamento não encontrado."},

	CodeTimeConflict:     {http.StatusConflict, "Conflito de horário."},
	CodeInvalidState:     {http.StatusConflict, "Transição de status inválida."},
	CodePlanLimitReached: {http.StatusPaymentRequired, "Limite do plano atingido."},
	CodeRateLimited:      {http.StatusTooManyRequests, "Muitas requisições."},
}

// WriteBusiness maps a use case error onto the HTTP taxonomy. Unknown errors are 500s.
func WriteBusiness(c *gin.Context, err error) {
	code := CodeOf(err)
	if m, ok := businessMappings[code]; ok {
		Write(c, m.status, code, m.message)
		return
	}
	Internal(c, "internal_error", "Erro interno.")
}

// StatusFor exposes the HTTP status a business code maps to.
func StatusFor(code string) int {
	if m, ok := businessMappings[code]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}
