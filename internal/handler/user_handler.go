package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"loan_portal/internal/logger"
	"loan_portal/internal/model"
	"loan_portal/internal/service"

	"github.com/gin-gonic/gin"
)

const maxImportSize = 10 << 20

// UserHandler serves borrower management in the admin console
type UserHandler struct {
	users     service.UserService
	contracts service.ContractService
	log       *logger.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users service.UserService, contracts service.ContractService, log *logger.Logger) *UserHandler {
	RegisterValidators()
	return &UserHandler{users: users, contracts: contracts, log: log.With("handler", "UserHandler")}
}

func userFilter(c *gin.Context) (model.UserFilter, error) {
	filter := model.UserFilter{Search: strings.TrimSpace(c.Query("search"))}
	if v := c.Query("is_settled"); v != "" {
		settled, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("invalid is_settled: %w", err)
		}
		filter.IsSettled = &settled
	}
	return filter, nil
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "无效的用户ID")
		return 0, false
	}
	return id, true
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	filter, err := userFilter(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "请求参数错误")
		return
	}
	filter.Pagination = pagination(c)

	page, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		failWith(c, h.log, err, "获取用户列表失败")
		return
	}
	ok(c, "获取成功", page)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}
	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		failWith(c, h.log, err, "创建用户失败")
		return
	}
	ok(c, "创建成功", user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}
	user, err := h.users.Update(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, h.log, err, "更新用户失败")
		return
	}
	ok(c, "更新成功", user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err, "删除用户失败")
		return
	}
	ok(c, "删除成功", nil)
}

func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err, "获取统计失败")
		return
	}
	ok(c, "获取成功", stats)
}

func (h *UserHandler) ImportUsers(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "请选择CSV文件")
		return
	}
	if fileHeader.Size > maxImportSize {
		fail(c, http.StatusBadRequest, "文件过大")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		failWith(c, h.log, err, "读取文件失败")
		return
	}
	defer file.Close()

	result, err := h.users.ImportCSV(c.Request.Context(), file)
	if err != nil {
		failWith(c, h.log, err, "导入失败")
		return
	}
	ok(c, fmt.Sprintf("成功导入%d条，跳过%d条", result.Imported, result.Skipped), result)
}

func attachment(c *gin.Context, fileName, contentType string, body []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, contentType, body)
}

func (h *UserHandler) ExportUsers(c *gin.Context) {
	filter, err := userFilter(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "请求参数错误")
		return
	}
	masked, _ := strconv.ParseBool(c.Query("mask"))

	csvBuffer, err := h.users.ExportCSV(c.Request.Context(), filter, masked)
	if err != nil {
		failWith(c, h.log, err, "导出失败")
		return
	}
	fileName := fmt.Sprintf("users_export_%s.csv", time.Now().Format("20060102_150405"))
	attachment(c, fileName, "text/csv; charset=utf-8", csvBuffer.Bytes())
}

func (h *UserHandler) ImportTemplate(c *gin.Context) {
	csvBuffer, err := h.users.ImportTemplate()
	if err != nil {
		failWith(c, h.log, err, "生成模板失败")
		return
	}
	attachment(c, "users_import_template.csv", "text/csv; charset=utf-8", csvBuffer.Bytes())
}

func (h *UserHandler) ContractPDF(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	view, err := h.contracts.ViewByUserID(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err, "生成合同失败")
		return
	}
	pdf, err := h.contracts.RenderPDF(view)
	if err != nil {
		failWith(c, h.log, err, "生成合同失败")
		return
	}
	attachment(c, fmt.Sprintf("contract_%d.pdf", id), "application/pdf", pdf)
}

func (h *UserHandler) RegisterUserRoutes(protected *gin.RouterGroup) {
	protected.GET("/users", h.ListUsers)
	protected.POST("/users", h.CreateUser)
	protected.PUT("/users/:id", h.UpdateUser)
	protected.DELETE("/users/:id", h.DeleteUser)
	protected.POST("/users/import", h.ImportUsers)
	protected.GET("/users/export", h.ExportUsers)
	protected.GET("/users/template", h.ImportTemplate)
	protected.GET("/users/:id/contract/pdf", h.ContractPDF)
	protected.GET("/stats", h.Stats)
}
