package routes

import (
	"time"

	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/api/handler"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Verification   *handler.VerificationHandler
	AuthMiddleware middleware.AuthMiddleware
	RequestRate    *middleware.RateLimiter
	SubmitRate     *middleware.RateLimiter
}

func NewRouter(e *echo.Echo, verificationHandler *handler.VerificationHandler, authMiddleware middleware.AuthMiddleware) *Router {
	return &Router{
		Echo:           e,
		Verification:   verificationHandler,
		AuthMiddleware: authMiddleware,
		RequestRate:    middleware.NewRateLimiter(rate.Limit(1), 3, 10*time.Minute),
		SubmitRate:     middleware.NewRateLimiter(rate.Limit(2), 6, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.POST("/verifications/request", r.Verification.RequestCode, r.RequestRate.Middleware())
	e.POST("/verifications/submit", r.Verification.SubmitCode, r.SubmitRate.Middleware())
	e.GET("/verifications/status", r.Verification.Status)

	e.POST("/admin/verifications/sweep", r.Verification.Sweep, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
}
