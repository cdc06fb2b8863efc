package handler

import (
	"errors"
	"net/http"

	"loan_portal/internal/logger"
	"loan_portal/internal/middleware"
	"loan_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every JSON endpoint answers with. Code mirrors
// the HTTP status.
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

func ok(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Msg: msg, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Code: status, Msg: msg})
}

var errorStatus = map[error]int{
	service.ErrInvalidPhone:         http.StatusBadRequest,
	service.ErrInvalidCode:          http.StatusBadRequest,
	service.ErrCodeInvalidOrExpired: http.StatusBadRequest,
	service.ErrMissingCredentials:   http.StatusBadRequest,
	service.ErrPasswordTooShort:     http.StatusBadRequest,
	service.ErrCannotDeleteSelf:     http.StatusBadRequest,
	service.ErrInvalidLoanDate:      http.StatusBadRequest,
	service.ErrNothingToUpdate:      http.StatusBadRequest,
	service.ErrInvalidCSV:           http.StatusBadRequest,
	service.ErrSettingKeyRequired:   http.StatusBadRequest,
	service.ErrInvalidSettingJSON:   http.StatusBadRequest,
	service.ErrNoFiles:              http.StatusBadRequest,
	service.ErrInvalidFileFormat:    http.StatusBadRequest,
	service.ErrFileSizeExceeded:     http.StatusBadRequest,
	service.ErrInvalidCredentials:   http.StatusUnauthorized,
	service.ErrAdminExists:          http.StatusConflict,
	service.ErrAdminNotFound:        http.StatusNotFound,
	service.ErrUserNotFound:         http.StatusNotFound,
	service.ErrSettingNotFound:      http.StatusNotFound,
	service.ErrReceiptNotFound:      http.StatusNotFound,
}

// failWith maps service sentinels to their status and message. Anything
// else is logged and reported as a 500 with fallback.
func failWith(c *gin.Context, log *logger.Logger, err error, fallback string) {
	for target, status := range errorStatus {
		if errors.Is(err, target) {
			fail(c, status, target.Error())
			return
		}
	}
	log.Error(fallback, "request_id", middleware.RequestIDFrom(c), "path", c.Request.URL.Path, "error", err)
	fail(c, http.StatusInternalServerError, fallback)
}
