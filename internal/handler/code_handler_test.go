package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loan_portal/internal/logger"
	"loan_portal/internal/model"
	"loan_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCodeRouter(codes *mockCodeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewCodeHandler(codes, logger.NewNop()).RegisterCodeRoutes(r.Group("/api/admin"))
	return r
}

func TestCodeHandler_ListCodes(t *testing.T) {
	codes := &mockCodeService{}
	filter := model.CodeFilter{Phone: "138", Pagination: model.Pagination{Page: 1, Limit: model.DefaultPageLimit}}
	codes.On("List", mock.Anything, filter).
		Return(model.NewPageResult([]model.VerificationCode{{Phone: "13800138000"}}, 1, filter.Pagination), nil)

	w := get(newCodeRouter(codes), "/api/admin/codes?phone=138&page=0")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(model.DefaultPageLimit), data["limit"])
}

func TestCodeHandler_ListCodesClampsPage(t *testing.T) {
	codes := &mockCodeService{}
	filter := model.CodeFilter{Pagination: model.Pagination{Page: model.MaxPage, Limit: model.MaxPageLimit}}
	codes.On("List", mock.Anything, filter).Return(model.NewPageResult[model.VerificationCode](nil, 0, filter.Pagination), nil)

	w := get(newCodeRouter(codes), "/api/admin/codes?page=9223372036854775807&limit=100000")
	require.Equal(t, http.StatusOK, w.Code)
	codes.AssertExpectations(t)
}

func TestCodeHandler_UpsertCode(t *testing.T) {
	codes := &mockCodeService{}
	expires := time.Date(2099, 12, 31, 23, 59, 59, 0, time.UTC)
	codes.On("AdminUpsert", mock.Anything, "13800138000", "").
		Return(&model.CodeUpsertResult{Phone: "13800138000", Code: "482913", ExpiresAt: expires, Created: true}, nil)
	codes.On("AdminUpsert", mock.Anything, "13800138000", "111111").
		Return(&model.CodeUpsertResult{Phone: "13800138000", Code: "111111", ExpiresAt: expires}, nil)
	codes.On("AdminUpsert", mock.Anything, "13800138000", "12").Return(nil, service.ErrInvalidCode)
	r := newCodeRouter(codes)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/admin/codes/13800138000", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "创建成功", decode(t, w)["msg"])

	w = sendJSON(r, http.MethodPut, "/api/admin/codes/13800138000", `{"code":" 111111 "}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "更新成功", decode(t, w)["msg"])

	w = sendJSON(r, http.MethodPut, "/api/admin/codes/13800138000", `{"code":"12"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendJSON(r, http.MethodPut, "/api/admin/codes/13800138000", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCodeHandler_UpsertCodeUnknownLength(t *testing.T) {
	codes := &mockCodeService{}
	expires := time.Date(2099, 12, 31, 23, 59, 59, 0, time.UTC)
	codes.On("AdminUpsert", mock.Anything, "13800138000", "4321").
		Return(&model.CodeUpsertResult{Phone: "13800138000", Code: "4321", ExpiresAt: expires}, nil)
	codes.On("AdminUpsert", mock.Anything, "13800138000", "").
		Return(&model.CodeUpsertResult{Phone: "13800138000", Code: "482913", ExpiresAt: expires, Created: true}, nil)
	r := newCodeRouter(codes)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/codes/13800138000", strings.NewReader(`{"code":"4321"}`))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4321", decode(t, w)["data"].(map[string]interface{})["code"])

	req = httptest.NewRequest(http.MethodPut, "/api/admin/codes/13800138000", strings.NewReader(""))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "创建成功", decode(t, w)["msg"])
	codes.AssertExpectations(t)
}

func TestCodeHandler_GenerateCodes(t *testing.T) {
	tests := []struct {
		n       int
		err     error
		status  int
		message string
	}{
		{3, nil, http.StatusOK, "成功生成3个验证码"},
		{0, nil, http.StatusOK, "所有用户都已有验证码"},
		{0, errors.New("db down"), http.StatusInternalServerError, "生成验证码失败"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			codes := &mockCodeService{}
			codes.On("GenerateForUsersLacking", mock.Anything).Return(tt.n, tt.err)

			w := httptest.NewRecorder()
			newCodeRouter(codes).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/generate_codes", nil))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["msg"])
		})
	}
}
