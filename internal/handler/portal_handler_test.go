package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"loan_portal/internal/logger"
	"loan_portal/internal/middleware"
	"loan_portal/internal/model"
	"loan_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPageService struct{ mock.Mock }

func (m *mockPageService) Data(ctx context.Context, page string, sess *model.UserSession) (interface{}, error) {
	args := m.Called(ctx, page, sess)
	return args.Get(0), args.Error(1)
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

type portalFixture struct {
	router  *gin.Engine
	cookies *middleware.SessionCookies
	users   *mockUserService
	pages   *mockPageService
	dir     string
}

func newPortalFixture(t *testing.T) *portalFixture {
	gin.SetMode(gin.TestMode)
	f := &portalFixture{cookies: testCookies(), users: &mockUserService{}, pages: &mockPageService{}, dir: t.TempDir()}
	receipts := service.NewReceiptService(f.dir, logger.NewNop())
	h := NewPortalHandler(f.users, f.pages, nil, receipts, logger.NewNop())

	f.router = gin.New()
	api := f.router.Group("/api")
	h.RegisterPortalRoutes(api, middleware.RequireUserSession(f.cookies), middleware.OptionalUserSession(f.cookies), api.Group("/admin"))
	return f
}

func (f *portalFixture) login(t *testing.T, phone string) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, f.cookies.SetUser(c, model.UserSession{UserID: "1", Phone: phone, LoginTime: time.Now()}))
	return w.Result().Cookies()[0]
}

func (f *portalFixture) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestPortalHandler_GetData(t *testing.T) {
	f := newPortalFixture(t)
	f.pages.On("Data", mock.Anything, model.PageIndex, (*model.UserSession)(nil)).
		Return(model.IndexPage{PageTitle: "好享贷"}, nil)
	f.pages.On("Data", mock.Anything, model.PageUser, mock.MatchedBy(func(s *model.UserSession) bool {
		return s != nil && s.Phone == "13800138000"
	})).Return(model.UserPage{UserName: "张三"}, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/getData", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	_, enveloped := body["code"]
	assert.False(t, enveloped)

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/getData?page=user", nil), f.login(t, "13800138000"))
	require.Equal(t, http.StatusOK, w.Code)
	f.pages.AssertExpectations(t)
}

func TestPortalHandler_GetUserDataUsesSessionPhone(t *testing.T) {
	f := newPortalFixture(t)
	f.users.On("Repayment", mock.Anything, "13800138000").Return(&model.RepaymentView{Phone: "13800138000"}, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/get_user_data?phone=13900139000", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/get_user_data?phone=13900139000", nil), f.login(t, "13800138000"))
	require.Equal(t, http.StatusOK, w.Code)
	f.users.AssertNotCalled(t, "Repayment", mock.Anything, "13900139000")
}

func TestPortalHandler_UploadAndReviewReceipts(t *testing.T) {
	f := newPortalFixture(t)
	cookie := f.login(t, "13800138000")

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("files[]", "receipt.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("phone", "13900139000"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload_receipts", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := f.do(req, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "上传成功", resp["msg"])
	urls := resp["urls"].([]interface{})
	require.Len(t, urls, 1)
	assert.True(t, strings.HasPrefix(urls[0].(string), "/api/admin/receipts/13800138000/"))

	entries, err := os.ReadDir(filepath.Join(f.dir, "receipts", "13800138000"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/admin/receipts/13800138000", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	w = f.do(httptest.NewRequest(http.MethodGet, urls[0].(string), nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngBytes, w.Body.Bytes())

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/admin/receipts/13800138000/missing.png", nil), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPortalHandler_UploadRejectsNonImage(t *testing.T) {
	f := newPortalFixture(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("files[]", "notes.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload_receipts", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := f.do(req, f.login(t, "13800138000"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrInvalidFileFormat.Error(), decode(t, w)["msg"])
}
