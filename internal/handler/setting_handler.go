package handler

import (
	"encoding/json"
	"net/http"

	"loan_portal/internal/config"
	"loan_portal/internal/logger"
	"loan_portal/internal/model"
	"loan_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// SettingHandler serves admin settings and the public setting readers
type SettingHandler struct {
	settings service.SettingService
	defaults map[string]interface{}
	log      *logger.Logger
}

// NewSettingHandler creates a new SettingHandler. defaults back the public
// text readers when the store cannot be read.
func NewSettingHandler(settings service.SettingService, defaults map[string]interface{}, log *logger.Logger) *SettingHandler {
	return &SettingHandler{settings: settings, defaults: defaults, log: log.With("handler", "SettingHandler")}
}

func (h *SettingHandler) GetSettings(c *gin.Context) {
	if key := c.Query("key"); key != "" {
		setting, err := h.settings.Get(c.Request.Context(), key)
		if err != nil {
			failWith(c, h.log, err, "获取设置失败")
			return
		}
		ok(c, "获取成功", setting)
		return
	}
	list, err := h.settings.List(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err, "获取设置失败")
		return
	}
	ok(c, "获取成功", gin.H{"list": list})
}

func (h *SettingHandler) PutSetting(c *gin.Context) {
	var req model.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "请求参数错误")
		return
	}
	saved, err := h.settings.Upsert(c.Request.Context(), req.Key, req.Value)
	if err != nil {
		failWith(c, h.log, err, "保存设置失败")
		return
	}
	ok(c, "保存成功", saved)
}

func (h *SettingHandler) CustomerServiceURL(c *gin.Context) {
	url, err := h.settings.String(c.Request.Context(), config.SettingCustomerServiceURL)
	if err != nil {
		failWith(c, h.log, err, "获取客服链接失败")
		return
	}
	ok(c, "获取成功", gin.H{"url": url})
}

// text reads a string setting, answering with the default when the store
// fails.
func (h *SettingHandler) text(c *gin.Context, key string) string {
	value, err := h.settings.String(c.Request.Context(), key)
	if err != nil {
		h.log.Warn("falling back to default setting", "key", key, "error", err)
		value, _ = h.defaults[key].(string)
	}
	return value
}

func (h *SettingHandler) WelcomeText(c *gin.Context) {
	ok(c, "", gin.H{"welcome_text": h.text(c, config.SettingWelcomeText)})
}

func (h *SettingHandler) CycleText(c *gin.Context) {
	ok(c, "", gin.H{"cycle_text": h.text(c, config.SettingCycleText)})
}

func (h *SettingHandler) PaymentMethods(c *gin.Context) {
	raw, err := h.settings.Raw(c.Request.Context(), config.SettingPaymentMethods)
	if err != nil {
		failWith(c, h.log, err, "获取收款方式失败")
		return
	}
	var methods []interface{}
	if err := json.Unmarshal(raw, &methods); err != nil || methods == nil {
		methods = []interface{}{}
	}
	ok(c, "获取成功", methods)
}

func (h *SettingHandler) SiteConfig(c *gin.Context) {
	ok(c, "", model.SiteConfig{SiteName: h.text(c, config.SettingSiteName)})
}

func (h *SettingHandler) RegisterSettingRoutes(rg *gin.RouterGroup, protected *gin.RouterGroup) {
	rg.GET("/get_customer_service_url", h.CustomerServiceURL)
	rg.GET("/get_welcome_text", h.WelcomeText)
	rg.GET("/get_cycle_text", h.CycleText)
	rg.GET("/get_payment_methods", h.PaymentMethods)
	rg.GET("/get_site_config", h.SiteConfig)

	protected.GET("/settings", h.GetSettings)
	protected.PUT("/settings", h.PutSetting)
}
