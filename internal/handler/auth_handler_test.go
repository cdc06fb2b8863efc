package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"loan_portal/internal/logger"
	"loan_portal/internal/middleware"
	"loan_portal/internal/model"
	"loan_portal/internal/service"
	"loan_portal/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testCookies() *middleware.SessionCookies {
	return middleware.NewSessionCookies(utils.NewSessionSigner("test-secret", 7*24*time.Hour), false)
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newAuthRouter(auth *mockAuthService, codes *mockCodeService, reveal bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(auth, codes, testCookies(), reveal, logger.NewNop())
	r := gin.New()
	h.RegisterAuthRoutes(r.Group("/api"), func(c *gin.Context) { c.Next() })
	return r
}

func TestAuthHandler_SendCode(t *testing.T) {
	codes := &mockCodeService{}
	codes.On("SendCode", mock.Anything, "13800138000").Return(&model.VerificationCode{Phone: "13800138000", Code: "123456"}, nil)
	codes.On("SendCode", mock.Anything, "123").Return(nil, service.ErrInvalidPhone)
	codes.On("SendCode", mock.Anything, "13900139000").Return(nil, errors.New("db down"))

	t.Run("reveals code outside production", func(t *testing.T) {
		w := httptest.NewRecorder()
		newAuthRouter(&mockAuthService{}, codes, true).ServeHTTP(w, postForm("/api/send_code", url.Values{"phone": {"13800138000"}}))
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "验证码发送成功", body["msg"])
		assert.Equal(t, "123456", body["data"].(map[string]interface{})["code"])
	})

	t.Run("hides code in production", func(t *testing.T) {
		w := httptest.NewRecorder()
		newAuthRouter(&mockAuthService{}, codes, false).ServeHTTP(w, postForm("/api/send_code", url.Values{"phone": {"13800138000"}}))
		require.Equal(t, http.StatusOK, w.Code)
		_, found := decode(t, w)["data"].(map[string]interface{})["code"]
		assert.False(t, found)
	})

	t.Run("invalid phone", func(t *testing.T) {
		w := httptest.NewRecorder()
		newAuthRouter(&mockAuthService{}, codes, true).ServeHTTP(w, postForm("/api/send_code", url.Values{"phone": {"123"}}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, service.ErrInvalidPhone.Error(), decode(t, w)["msg"])
	})

	t.Run("store failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		newAuthRouter(&mockAuthService{}, codes, true).ServeHTTP(w, postForm("/api/send_code", url.Values{"phone": {"13900139000"}}))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "发送失败，请重试", decode(t, w)["msg"])
	})
}

func TestAuthHandler_LoginSessionLogout(t *testing.T) {
	auth := &mockAuthService{}
	sess := &model.UserSession{UserID: "7", Phone: "13800138000", Name: "张三", LoginTime: time.Now()}
	auth.On("CheckLogin", mock.Anything, "13800138000", "123456").Return(sess, nil)
	auth.On("CheckLogin", mock.Anything, "13800138000", "000000").Return(nil, service.ErrCodeInvalidOrExpired)
	r := newAuthRouter(auth, &mockCodeService{}, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postForm("/api/check_login", url.Values{"phone": {"13800138000"}, "code": {"000000"}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Result().Cookies())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, postForm("/api/check_login", url.Values{"phone": {"13800138000"}, "code": {"123456"}}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "登录成功", decode(t, w)["msg"])
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.UserSessionCookie, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/api/check_session", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	body := decode(t, w)
	assert.Equal(t, true, body["logged_in"])
	assert.Equal(t, "7", body["data"].(map[string]interface{})["user_id"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/check_session", nil))
	assert.Equal(t, false, decode(t, w)["logged_in"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/logout", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Less(t, cleared[0].MaxAge, 0)
}
