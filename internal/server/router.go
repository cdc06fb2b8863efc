package server

import (
	"time"

	"loan_portal/internal/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowOrigins   []string
	DB             handler.Pinger
	AuthHandler    *handler.AuthHandler
	AdminHandler   *handler.AdminHandler
	CodeHandler    *handler.CodeHandler
	SettingHandler *handler.SettingHandler
	UserHandler    *handler.UserHandler
	PortalHandler  *handler.PortalHandler

	RequestID     gin.HandlerFunc
	AccessLog     gin.HandlerFunc
	SendCodeLimit gin.HandlerFunc
	UserAuth      gin.HandlerFunc
	OptionalAuth  gin.HandlerFunc
	AdminAuth     gin.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	handler.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), cfg.RequestID, cfg.AccessLog)

	//-----------------------------------------
	// Cors Setup
	//-----------------------------------------
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	//-----------------------------------------
	// Health Routes
	//-----------------------------------------
	router.GET("/health", handler.Health(cfg.DB))

	//-----------------------------------------
	// Public and borrower routes
	//-----------------------------------------
	api := router.Group("/api")
	cfg.AuthHandler.RegisterAuthRoutes(api, cfg.SendCodeLimit)

	//------------------------------------------
	// Admin routes
	//------------------------------------------
	admin := api.Group("/admin")
	admin.Use(cfg.AdminAuth)

	cfg.AdminHandler.RegisterAdminRoutes(api, admin)
	cfg.CodeHandler.RegisterCodeRoutes(admin)
	cfg.SettingHandler.RegisterSettingRoutes(api, admin)
	cfg.UserHandler.RegisterUserRoutes(admin)
	cfg.PortalHandler.RegisterPortalRoutes(api, cfg.UserAuth, cfg.OptionalAuth, admin)

	return router
}
