package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"loan_portal/internal/logger"
	"loan_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFailWith(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", service.ErrInvalidPhone, http.StatusBadRequest, service.ErrInvalidPhone.Error()},
		{"wrapped", fmt.Errorf("%w: 至少需要表头和数据行", service.ErrInvalidCSV), http.StatusBadRequest, service.ErrInvalidCSV.Error()},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, service.ErrInvalidCredentials.Error()},
		{"conflict", service.ErrAdminExists, http.StatusConflict, service.ErrAdminExists.Error()},
		{"not found", service.ErrUserNotFound, http.StatusNotFound, service.ErrUserNotFound.Error()},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "操作失败"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/x", nil)

			failWith(c, logger.NewNop(), tt.err, "操作失败")

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"code":%d,"msg":%q}`, tt.status, tt.msg), w.Body.String())
		})
	}
}
