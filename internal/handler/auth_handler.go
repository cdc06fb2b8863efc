package handler

import (
	"net/http"
	"strings"

	"loan_portal/internal/logger"
	"loan_portal/internal/middleware"
	"loan_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles borrower login with phone verification codes
type AuthHandler struct {
	auth        service.AuthService
	codes       service.CodeService
	cookies     *middleware.SessionCookies
	revealCodes bool
	log         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler. revealCodes echoes issued codes
// in the send_code response and must be off in production.
func NewAuthHandler(auth service.AuthService, codes service.CodeService, cookies *middleware.SessionCookies, revealCodes bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		codes:       codes,
		cookies:     cookies,
		revealCodes: revealCodes,
		log:         log.With("handler", "AuthHandler"),
	}
}

func (h *AuthHandler) SendCode(c *gin.Context) {
	phone := strings.TrimSpace(c.PostForm("phone"))
	vc, err := h.codes.SendCode(c.Request.Context(), phone)
	if err != nil {
		failWith(c, h.log, err, "发送失败，请重试")
		return
	}

	data := gin.H{"phone": phone}
	if h.revealCodes {
		data["code"] = vc.Code
	}
	ok(c, "验证码发送成功", data)
}

func (h *AuthHandler) CheckLogin(c *gin.Context) {
	phone := strings.TrimSpace(c.PostForm("phone"))
	code := strings.TrimSpace(c.PostForm("code"))

	sess, err := h.auth.CheckLogin(c.Request.Context(), phone, code)
	if err != nil {
		failWith(c, h.log, err, "登录失败，请重试")
		return
	}
	if err := h.cookies.SetUser(c, *sess); err != nil {
		failWith(c, h.log, err, "登录失败，请重试")
		return
	}
	h.log.Info("user logged in", "user_id", sess.UserID, "phone", sess.Phone)
	ok(c, "登录成功", sess)
}

// CheckSession never fails; a missing or invalid cookie reads as logged out.
func (h *AuthHandler) CheckSession(c *gin.Context) {
	sess, found := h.cookies.User(c)
	if !found {
		c.JSON(http.StatusOK, gin.H{"logged_in": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_in": true, "data": sess})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.ClearUser(c)
	ok(c, "退出成功", nil)
}

// RegisterAuthRoutes registers borrower auth routes. sendLimit throttles
// send_code.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, sendLimit gin.HandlerFunc) {
	rg.POST("/send_code", sendLimit, h.SendCode)
	rg.POST("/check_login", h.CheckLogin)
	rg.GET("/check_session", h.CheckSession)
	rg.POST("/logout", h.Logout)
}
