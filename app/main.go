package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"procurement-system/internal/controllers"
	"procurement-system/internal/repositories"
	"procurement-system/internal/routes"
	"procurement-system/internal/services"
	"procurement-system/pkg/config"
	"procurement-system/pkg/customvalidator"
	"procurement-system/pkg/database/postgresql"
	apperrors "procurement-system/pkg/errors"
	applogger "procurement-system/pkg/logger"
	appmw "procurement-system/pkg/middleware"
	"procurement-system/pkg/service"
	"procurement-system/pkg/utils"
)

func main() {
	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	if err := postgresql.Migrate(cfg.Postgres.DSN); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis is unreachable, caches will fall through to the database", zap.Error(err))
	}
	defer redisClient.Close()

	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				return utils.ErrorResponse(c, httpErr, logger)
			}
			return nil
		},
	}))
	e.Use(appmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("failed to register custom validations", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	// Repositories.
	txManager := repositories.NewTxManager(pool)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	userRepo := repositories.NewUserRepository(pool, logger)
	permissionRepo := repositories.NewPermissionRepository(pool, logger)
	settingsRepo := repositories.NewSettingsRepository(pool, logger)
	configRepo := repositories.NewApprovalConfigurationRepository(pool, logger)
	sigRepo := repositories.NewDocumentSignatureRepository(pool, logger)
	requirementRepo := repositories.NewRequirementRepository(pool, logger)
	quotationRepo := repositories.NewQuotationRepository(pool, logger)
	fuelControlRepo := repositories.NewFuelControlRepository(pool, logger)
	purchaseOrderRepo := repositories.NewPurchaseOrderRepository(pool, logger)
	reportRepo := repositories.NewReportRepository(pool, logger)

	// Services.
	permissionSvc := services.NewAuthPermissionService(permissionRepo, cacheRepo, logger)
	settingsSvc := services.NewSettingsService(settingsRepo, cacheRepo, cfg.Approval.AmountThresholdDefault, cfg.Approval.SettingsCacheTTL, logger)
	approvalSvc := services.NewApprovalService(configRepo, sigRepo, settingsSvc, txManager, logger)
	authSvc := services.NewAuthService(userRepo, jwtSvc, logger)
	userSvc := services.NewUserService(userRepo, logger)
	requirementSvc := services.NewRequirementService(requirementRepo, sigRepo, approvalSvc, txManager, logger)
	quotationSvc := services.NewQuotationService(quotationRepo, sigRepo, approvalSvc, txManager, logger)
	fuelControlSvc := services.NewFuelControlService(fuelControlRepo, sigRepo, approvalSvc, txManager, logger)
	purchaseOrderSvc := services.NewPurchaseOrderService(purchaseOrderRepo, sigRepo, approvalSvc, txManager, logger)
	reportSvc := services.NewReportService(reportRepo, logger)

	authMW := appmw.NewAuthMiddleware(jwtSvc, permissionSvc, logger)

	routes.InitRouter(e, routes.Controllers{
		Auth:          controllers.NewAuthController(authSvc, userSvc, logger),
		Requirement:   controllers.NewRequirementController(requirementSvc, logger),
		Quotation:     controllers.NewQuotationController(quotationSvc, logger),
		FuelControl:   controllers.NewFuelControlController(fuelControlSvc, logger),
		PurchaseOrder: controllers.NewPurchaseOrderController(purchaseOrderSvc, logger),
		Approval:      controllers.NewApprovalController(approvalSvc, logger),
		Settings:      controllers.NewSettingsController(settingsSvc, logger),
		Report:        controllers.NewReportController(reportSvc, logger),
	}, authMW)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
