package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/api/handler"
	apiMiddleware "github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/api/middleware"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/api/routes"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/config"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/repository"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/service"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	db := config.ConnectionDb()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	adminSecret := []byte(os.Getenv("ADMIN_JWT_SECRET"))
	if len(adminSecret) == 0 {
		logger.Fatal("ADMIN_JWT_SECRET is required")
	}
	jwtManager := utils.JWTManager{
		Secret: adminSecret,
		Issuer: os.Getenv("ADMIN_JWT_ISSUER"),
	}

	recordRepo := repository.NewEmailVerificationRepository(db)
	auditRepo := repository.NewVerificationAuditRepository(db)

	var gateway service.NotificationGateway
	resendGateway, err := service.NewResendGateway(os.Getenv("RESEND_API_KEY"), os.Getenv("MAIL_FROM"))
	if err != nil {
		logger.WithError(err).Warn("resend not configured, falling back to log gateway")
		gateway = service.LogGateway{Logger: logger}
	} else {
		gateway = resendGateway
	}

	verificationService := service.NewVerificationService(
		recordRepo,
		auditRepo,
		gateway,
		service.NumericCodeGenerator{},
		service.RealClock{},
		logger,
		config.VerificationSettings(),
	)

	verificationHandler := handler.NewVerificationHandler(verificationService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &jwtManager}
	router := routes.NewRouter(app, verificationHandler, authMiddleware)
	router.RegisterRoutes()

	sweep := config.SweeperSettings()
	if sweep.Interval > 0 {
		go runSweeper(context.Background(), verificationService, sweep, logger)
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", addr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func runSweeper(ctx context.Context, svc *service.VerificationService, settings config.SweepSettings, logger *logrus.Logger) {
	ticker := time.NewTicker(settings.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.SweepRecords(ctx, settings.Retention); err != nil {
				logger.WithError(err).Error("verification sweep failed")
			}
		}
	}
}
