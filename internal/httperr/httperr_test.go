package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBusinessThroughWrapping(t *testing.T) {
	err := fmt.Errorf("booking: %w", ErrBusiness(CodeTimeConflict))

	assert.True(t, IsBusiness(err, CodeTimeConflict))
	assert.False(t, IsBusiness(err, CodeTooSoon))
	assert.Equal(t, CodeTimeConflict, CodeOf(err))
	assert.Equal(t, "", CodeOf(errors.New("db down")))
}

func TestWriteBusinessTaxonomy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{ErrBusiness(CodeInvalidDateOrTime), http.StatusBadRequest},
		{ErrBusiness(CodeForbidden), http.StatusForbidden},
		{ErrBusiness(CodeAppointmentNotFound), http.StatusNotFound},
		{ErrBusiness(CodeTimeConflict), http.StatusConflict},
		{ErrBusiness(CodePlanLimitReached), http.StatusPaymentRequired},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			WriteBusiness(c, tt.err)

			assert.Equal(t, tt.want, w.Code)
			var body HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}
