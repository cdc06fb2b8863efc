package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"loan_portal/internal/logger"
	"loan_portal/internal/model"
	"loan_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// CodeHandler serves the admin verification-code console
type CodeHandler struct {
	codes service.CodeService
	log   *logger.Logger
}

// NewCodeHandler creates a new CodeHandler
func NewCodeHandler(codes service.CodeService, log *logger.Logger) *CodeHandler {
	return &CodeHandler{codes: codes, log: log.With("handler", "CodeHandler")}
}

func pagination(c *gin.Context) model.Pagination {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	p := model.Pagination{Page: page, Limit: limit}
	p.Normalize()
	return p
}

func (h *CodeHandler) ListCodes(c *gin.Context) {
	filter := model.CodeFilter{Phone: strings.TrimSpace(c.Query("phone")), Pagination: pagination(c)}
	page, err := h.codes.List(c.Request.Context(), filter)
	if err != nil {
		failWith(c, h.log, err, "获取验证码列表失败")
		return
	}
	ok(c, "获取成功", page)
}

type upsertCodeRequest struct {
	Code string `json:"code"`
}

// UpsertCode sets a permanent code for the phone in the path. An empty body
// generates one.
func (h *CodeHandler) UpsertCode(c *gin.Context) {
	var req upsertCodeRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			fail(c, http.StatusBadRequest, "请求参数错误")
			return
		}
	}
	res, err := h.codes.AdminUpsert(c.Request.Context(), c.Param("phone"), strings.TrimSpace(req.Code))
	if err != nil {
		failWith(c, h.log, err, "更新验证码失败")
		return
	}
	msg := "更新成功"
	if res.Created {
		msg = "创建成功"
	}
	ok(c, msg, res)
}

func (h *CodeHandler) GenerateCodes(c *gin.Context) {
	n, err := h.codes.GenerateForUsersLacking(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err, "生成验证码失败")
		return
	}
	msg := "所有用户都已有验证码"
	if n > 0 {
		msg = "成功生成" + strconv.Itoa(n) + "个验证码"
	}
	ok(c, msg, gin.H{"generated": n})
}

func (h *CodeHandler) RegisterCodeRoutes(protected *gin.RouterGroup) {
	protected.GET("/codes", h.ListCodes)
	protected.PUT("/codes/:phone", h.UpsertCode)
	protected.POST("/generate_codes", h.GenerateCodes)
}
