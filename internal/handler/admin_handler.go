package handler

import (
	"net/http"
	"strconv"
	"time"

	"loan_portal/internal/logger"
	"loan_portal/internal/middleware"
	"loan_portal/internal/model"
	"loan_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin login and admin account management
type AdminHandler struct {
	admins  service.AdminService
	cookies *middleware.SessionCookies
	log     *logger.Logger
	now     func() time.Time
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admins service.AdminService, cookies *middleware.SessionCookies, log *logger.Logger) *AdminHandler {
	return &AdminHandler{admins: admins, cookies: cookies, log: log.With("handler", "AdminHandler"), now: time.Now}
}

func (h *AdminHandler) Login(c *gin.Context) {
	admin, err := h.admins.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		failWith(c, h.log, err, "登录失败，请重试")
		return
	}

	sess := model.AdminSession{AdminID: admin.ID, Username: admin.Username, LoginTime: h.now()}
	if err := h.cookies.SetAdmin(c, sess); err != nil {
		failWith(c, h.log, err, "登录失败，请重试")
		return
	}
	ok(c, "登录成功", gin.H{"id": admin.ID, "username": admin.Username, "login_time": sess.LoginTime})
}

// CheckSession reports whether the admin cookie belongs to an active
// account, clearing it when it does not.
func (h *AdminHandler) CheckSession(c *gin.Context) {
	sess, found := h.cookies.Admin(c)
	if !found {
		c.JSON(http.StatusOK, gin.H{"logged_in": false})
		return
	}
	admin, err := h.admins.Authenticate(c.Request.Context(), sess.AdminID)
	if err != nil {
		h.cookies.ClearAdmin(c)
		c.JSON(http.StatusOK, gin.H{"logged_in": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_in": true, "data": gin.H{"id": admin.ID, "username": admin.Username}})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	h.cookies.ClearAdmin(c)
	ok(c, "退出成功", nil)
}

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err, "获取管理员列表失败")
		return
	}
	if admins == nil {
		admins = []model.AdminUser{}
	}
	ok(c, "获取成功", admins)
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req model.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "请求参数错误")
		return
	}
	admin, err := h.admins.Create(c.Request.Context(), req)
	if err != nil {
		failWith(c, h.log, err, "创建管理员失败")
		return
	}
	ok(c, "创建成功", admin)
}

func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "无效的管理员ID")
		return
	}
	actor := middleware.AdminSessionFrom(c)
	if err := h.admins.Delete(c.Request.Context(), actor.AdminID, id); err != nil {
		failWith(c, h.log, err, "删除管理员失败")
		return
	}
	ok(c, "删除成功", nil)
}

// RegisterAdminRoutes registers admin auth routes on rg and account
// management on the protected group.
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, protected *gin.RouterGroup) {
	rg.POST("/admin/login", h.Login)
	rg.GET("/admin/check_session", h.CheckSession)
	rg.POST("/admin/logout", h.Logout)

	protected.GET("/admins", h.ListAdmins)
	protected.POST("/admins", h.CreateAdmin)
	protected.DELETE("/admins/:id", h.DeleteAdmin)
}
