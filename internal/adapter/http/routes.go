package http

import (
	"eduloan-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type Routes struct {
	Health        *Handler
	LoanRequests  *LoanRequestHandler
	Notifications *NotificationHandler
	JWTSecret     []byte
	// Idempotency wraps mutating loan-request routes; nil disables it.
	Idempotency echo.MiddlewareFunc
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)

	api := e.Group("/api", middleware.Authenticate(r.JWTSecret))

	student := middleware.RequireRole(middleware.RoleStudent)
	nbfc := middleware.RequireRole(middleware.RoleNBFC)
	mutating := []echo.MiddlewareFunc{}
	if r.Idempotency != nil {
		mutating = append(mutating, r.Idempotency)
	}
	with := func(role echo.MiddlewareFunc, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
		return append([]echo.MiddlewareFunc{role}, extra...)
	}

	lr := api.Group("/loan-requests")
	lr.POST("", r.LoanRequests.Create, with(student, mutating...)...)
	lr.GET("/student", r.LoanRequests.ListForStudent, student)
	lr.POST("/:id/accept", r.LoanRequests.Accept, with(student, mutating...)...)
	lr.GET("/nbfc", r.LoanRequests.ListForNBFC, nbfc)
	lr.GET("/nbfc/:id", r.LoanRequests.GetForNBFC, nbfc)
	lr.POST("/:id/decision", r.LoanRequests.Decide, with(nbfc, mutating...)...)

	n := api.Group("/notifications")
	n.GET("", r.Notifications.List)
	n.POST("/:id/read", r.Notifications.MarkRead)
}
