package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan_portal/internal/config"
	"loan_portal/internal/handler"
	"loan_portal/internal/logger"
	"loan_portal/internal/middleware"
	"loan_portal/internal/repository"
	"loan_portal/internal/server"
	"loan_portal/internal/service"
	"loan_portal/internal/sms"
	"loan_portal/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(logger.Options{
		Development: !cfg.IsProduction(),
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	defaults, err := config.LoadDefaults(cfg.DefaultsFile)
	if err != nil {
		appLog.Fatal("failed to load defaults", "file", cfg.DefaultsFile, "error", err)
	}

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		appLog.Fatal("failed to load DB config", "error", err)
	}

	if err := os.MkdirAll(cfg.UploadsDir, os.ModePerm); err != nil {
		appLog.Fatal("failed to create uploads directory", "dir", cfg.UploadsDir, "error", err)
	}
	appLog.Info("uploads directory ready", "dir", cfg.UploadsDir)

	// --- Database Connection ---
	ctx := context.Background()
	dbPool, err := config.ConnectDB(ctx, dbCfg, appLog)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(ctx, dbPool, appLog); err != nil {
		appLog.Fatal("failed to auto-migrate database", "error", err)
	}

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	codeRepo := repository.NewCodeRepository(dbPool)
	adminRepo := repository.NewAdminRepository(dbPool)
	settingRepo := repository.NewSettingRepository(dbPool)

	// --- SMS ---
	var sender sms.Sender = sms.NewLogSender(appLog, !cfg.IsProduction())
	if cfg.TwilioEnabled() {
		twilioSender, err := sms.NewTwilioSender(appLog, sms.TwilioConfig{
			AccountSID:    cfg.TwilioAccountSID,
			AuthToken:     cfg.TwilioAuthToken,
			FromNumber:    cfg.TwilioFromNumber,
			CountryPrefix: cfg.SMSCountryPrefix,
		})
		if err != nil {
			appLog.Fatal("failed to configure Twilio", "error", err)
		}
		sender = twilioSender
	}

	// --- Initialize Services ---
	codeService := service.NewCodeService(codeRepo, userRepo, sender, cfg.CodeTTL, appLog)
	authService := service.NewAuthService(codeService, userRepo, cfg.DevCodeBypass, appLog)
	adminService := service.NewAdminService(adminRepo, cfg.PasswordScheme, appLog)
	settingService, err := service.NewSettingService(settingRepo, defaults.Settings)
	if err != nil {
		appLog.Fatal("invalid setting defaults", "error", err)
	}
	userService := service.NewUserService(userRepo, codeService, appLog)
	receiptService := service.NewReceiptService(cfg.UploadsDir, appLog)
	contractService := service.NewContractService(userService, defaults.Contract, cfg.ContractFontPath, appLog)
	pageService := service.NewPageService(settingService, userService, contractService, defaults.Contract, appLog)

	created, err := adminService.Bootstrap(ctx, cfg.AdminBootstrapUsername, cfg.AdminBootstrapPassword)
	if err != nil {
		appLog.Fatal("failed to bootstrap admin", "error", err)
	}
	if created {
		appLog.Info("bootstrap admin created", "username", cfg.AdminBootstrapUsername)
	}

	// --- Sessions ---
	signer := utils.NewSessionSigner(cfg.SessionSecret, cfg.SessionMaxAge)
	cookies := middleware.NewSessionCookies(signer, cfg.CookieSecure)

	// --- Rate limiting (optional) ---
	var sendLimiter *middleware.Interceptor
	if cfg.RedisAddress != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLog.Warn("redis unreachable, send_code limiter will fail open", "addr", cfg.RedisAddress, "error", err)
		}
		sendLimiter = middleware.NewInterceptor(rdb, "send_code:", cfg.SendCodeWindowSec, cfg.SendCodeLimit)
	}

	// --- Initialize Handlers ---
	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:   cfg.CORSOrigins,
		DB:             dbPool,
		AuthHandler:    handler.NewAuthHandler(authService, codeService, cookies, !cfg.IsProduction(), appLog),
		AdminHandler:   handler.NewAdminHandler(adminService, cookies, appLog),
		CodeHandler:    handler.NewCodeHandler(codeService, appLog),
		SettingHandler: handler.NewSettingHandler(settingService, defaults.Settings, appLog),
		UserHandler:    handler.NewUserHandler(userService, contractService, appLog),
		PortalHandler:  handler.NewPortalHandler(userService, pageService, contractService, receiptService, appLog),
		RequestID:      middleware.RequestID(),
		AccessLog:      middleware.AccessLog(appLog),
		SendCodeLimit:  middleware.RateLimit(sendLimiter, middleware.PhoneOrIP, appLog),
		UserAuth:       middleware.RequireUserSession(cookies),
		OptionalAuth:   middleware.OptionalUserSession(cookies),
		AdminAuth:      middleware.RequireAdmin(cookies, adminService, appLog),
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		appLog.Info("server starting", "port", cfg.ServerPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("listen failed", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
	}

	appLog.Info("server exiting")
}
