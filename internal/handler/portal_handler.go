package handler

import (
	"net/http"

	"loan_portal/internal/logger"
	"loan_portal/internal/middleware"
	"loan_portal/internal/model"
	"loan_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// PortalHandler serves the logged-in borrower pages
type PortalHandler struct {
	users     service.UserService
	pages     service.PageService
	contracts service.ContractService
	receipts  service.ReceiptService
	log       *logger.Logger
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(users service.UserService, pages service.PageService, contracts service.ContractService, receipts service.ReceiptService, log *logger.Logger) *PortalHandler {
	return &PortalHandler{
		users:     users,
		pages:     pages,
		contracts: contracts,
		receipts:  receipts,
		log:       log.With("handler", "PortalHandler"),
	}
}

// GetUserData returns the repayment summary of the session's own borrower.
func (h *PortalHandler) GetUserData(c *gin.Context) {
	sess := middleware.UserSessionFrom(c)
	view, err := h.users.Repayment(c.Request.Context(), sess.Phone)
	if err != nil {
		failWith(c, h.log, err, "获取用户数据失败")
		return
	}
	ok(c, "获取成功", view)
}

// GetData returns the bare page payload, not the envelope.
func (h *PortalHandler) GetData(c *gin.Context) {
	page := c.DefaultQuery("page", model.PageIndex)
	data, err := h.pages.Data(c.Request.Context(), page, middleware.UserSessionFrom(c))
	if err != nil {
		failWith(c, h.log, err, "获取页面数据失败")
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *PortalHandler) Contract(c *gin.Context) {
	view, err := h.contracts.View(c.Request.Context(), middleware.UserSessionFrom(c).Phone)
	if err != nil {
		failWith(c, h.log, err, "获取合同失败")
		return
	}
	ok(c, "获取成功", view)
}

func (h *PortalHandler) ContractPDF(c *gin.Context) {
	view, err := h.contracts.View(c.Request.Context(), middleware.UserSessionFrom(c).Phone)
	if err != nil {
		failWith(c, h.log, err, "生成合同失败")
		return
	}
	pdf, err := h.contracts.RenderPDF(view)
	if err != nil {
		failWith(c, h.log, err, "生成合同失败")
		return
	}
	attachment(c, "contract.pdf", "application/pdf", pdf)
}

func (h *PortalHandler) UploadReceipts(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		failWith(c, h.log, service.ErrNoFiles, "上传失败，请重试")
		return
	}
	sess := middleware.UserSessionFrom(c)
	receipts, err := h.receipts.Save(c.Request.Context(), sess.Phone, form.File["files[]"])
	if err != nil {
		failWith(c, h.log, err, "上传失败，请重试")
		return
	}
	urls := make([]string, len(receipts))
	for i, r := range receipts {
		urls[i] = r.URL
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "msg": "上传成功", "urls": urls})
}

func (h *PortalHandler) ListReceipts(c *gin.Context) {
	receipts, err := h.receipts.List(c.Request.Context(), c.Param("phone"))
	if err != nil {
		failWith(c, h.log, err, "获取凭证失败")
		return
	}
	ok(c, "获取成功", receipts)
}

func (h *PortalHandler) DownloadReceipt(c *gin.Context) {
	path, err := h.receipts.Path(c.Request.Context(), c.Param("phone"), c.Param("name"))
	if err != nil {
		failWith(c, h.log, err, "获取凭证失败")
		return
	}
	c.File(path)
}

// RegisterPortalRoutes registers borrower routes behind userAuth, getData
// behind optionalAuth and receipt review on the admin group.
func (h *PortalHandler) RegisterPortalRoutes(rg *gin.RouterGroup, userAuth, optionalAuth gin.HandlerFunc, protected *gin.RouterGroup) {
	rg.GET("/getData", optionalAuth, h.GetData)

	user := rg.Group("")
	user.Use(userAuth)
	{
		user.GET("/get_user_data", h.GetUserData)
		user.GET("/contract", h.Contract)
		user.GET("/contract/pdf", h.ContractPDF)
		user.POST("/upload_receipts", h.UploadReceipts)
	}

	protected.GET("/receipts/:phone", h.ListReceipts)
	protected.GET("/receipts/:phone/:name", h.DownloadReceipt)
}
