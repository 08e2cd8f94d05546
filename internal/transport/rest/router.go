package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/attendance"
	"github.com/zonoapp/workforce/internal/auth"
	"github.com/zonoapp/workforce/internal/availability"
	"github.com/zonoapp/workforce/internal/employee"
	"github.com/zonoapp/workforce/internal/inventory"
	"github.com/zonoapp/workforce/internal/notification"
	"github.com/zonoapp/workforce/internal/shift"
	"github.com/zonoapp/workforce/internal/swap"
	"github.com/zonoapp/workforce/internal/tenant"
	"github.com/zonoapp/workforce/internal/transport/middleware"
)

// Handlers bundles every mounted handler so the server entrypoint can
// wire them in one call.
type Handlers struct {
	Auth         *auth.Handler
	Shift        *shift.Handler
	Swap         *swap.Handler
	Attendance   *attendance.Handler
	Availability *availability.Handler
	Employee     *employee.Handler
	Tenant       *tenant.Handler
	Inventory    *inventory.Handler
	Notification *notification.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg *internal.Config, handlers Handlers, authMW func(http.Handler) http.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(logger)

	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", handlers.Auth.Login)
			sr.Post("/refresh", handlers.Auth.RefreshToken)
			sr.Post("/logout", handlers.Auth.Logout)
		})

		// Everything below requires a valid access token.
		r.Group(func(pr chi.Router) {
			pr.Use(authMW)

			pr.Get("/me", handlers.Employee.GetMe)

			pr.Route("/shifts", func(sr chi.Router) {
				sr.Get("/", handlers.Shift.ListShifts)
				sr.Get("/mine", handlers.Shift.ListMyShifts)

				// Swap requests stay open to the assignee; the service
				// checks ownership.
				sr.Post("/{shiftID}/swaps", handlers.Swap.RequestSwap)

				sr.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware(auth.ActionShiftManage))
					mr.Post("/", handlers.Shift.CreateShift)
					mr.Patch("/{id}", handlers.Shift.UpdateShift)
					mr.Delete("/{id}", handlers.Shift.DeleteShift)
				})
			})

			pr.Route("/swaps", func(sr chi.Router) {
				sr.Get("/mine", handlers.Swap.ListMySwaps)
				sr.Post("/{id}/accept", handlers.Swap.AcceptSwap)
				sr.Post("/{id}/decline", handlers.Swap.DeclineSwap)
				sr.Post("/{id}/cancel", handlers.Swap.CancelSwap)

				sr.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware(auth.ActionSwapApprove))
					mr.Post("/{id}/approve", handlers.Swap.ApproveSwap)
				})
			})

			pr.Route("/attendance", func(ar chi.Router) {
				ar.Post("/clock-in", handlers.Attendance.ClockIn)
				ar.Post("/clock-out", handlers.Attendance.ClockOut)
				ar.Get("/", handlers.Attendance.ListDay)

				ar.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware(auth.ActionAttendanceEdit))
					mr.Patch("/{id}", handlers.Attendance.EditAttendance)
				})
				ar.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware(auth.ActionMarkAbsent))
					mr.Post("/mark-absent", handlers.Attendance.MarkAbsent)
				})
				ar.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware(auth.ActionAttendanceViewAll))
					mr.Get("/export", handlers.Attendance.ExportDay)
				})
			})

			pr.Route("/availability", func(ar chi.Router) {
				ar.Post("/", handlers.Availability.UpsertAvailability)
				ar.Delete("/{id}", handlers.Availability.DeleteAvailability)
				ar.Get("/", handlers.Availability.ListAvailability)
			})

			pr.Route("/employees", func(er chi.Router) {
				er.Get("/", handlers.Employee.ListEmployees)
				er.Get("/{id}", handlers.Employee.GetEmployee)

				er.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware(auth.ActionEmployeeManage))
					mr.Post("/", handlers.Employee.CreateEmployee)
					mr.Patch("/{id}", handlers.Employee.UpdateEmployee)
					mr.Delete("/{id}", handlers.Employee.DeleteEmployee)
				})
			})

			pr.Route("/tenants", func(tr chi.Router) {
				tr.Get("/{id}", handlers.Tenant.GetTenant)
				tr.Get("/{id}/features", handlers.Tenant.GetFeatures)

				tr.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware(auth.ActionTenantManage))
					mr.Get("/", handlers.Tenant.ListTenants)
					mr.Post("/", handlers.Tenant.CreateTenant)
					mr.Put("/{id}/features", handlers.Tenant.SetFeatures)
				})
			})

			pr.Route("/inventory", func(ir chi.Router) {
				ir.Get("/items", handlers.Inventory.ListItems)
				ir.Get("/items/{id}", handlers.Inventory.GetItem)
				ir.Get("/items/{id}/levels", handlers.Inventory.ItemHistory)

				ir.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware(auth.ActionInventoryManage))
					mr.Post("/items", handlers.Inventory.CreateItem)
					mr.Patch("/items/{id}", handlers.Inventory.UpdateItem)
					mr.Delete("/items/{id}", handlers.Inventory.DeleteItem)
					mr.Post("/items/{id}/levels", handlers.Inventory.RecordLevel)
				})
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", handlers.Notification.ListNotifications)
				nr.Get("/unread", handlers.Notification.UnreadCount)
				nr.Post("/{id}/read", handlers.Notification.MarkRead)
				nr.Post("/read-all", handlers.Notification.MarkAllRead)
			})

			pr.Get("/ws", handlers.Notification.ServeWS)
		})
	})
}
