package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workorder-management/internal/auth"
	"github.com/frahmantamala/workorder-management/internal/permission"
	"github.com/frahmantamala/workorder-management/internal/transport/middleware"
	"github.com/frahmantamala/workorder-management/internal/transport/swagger"
	"github.com/frahmantamala/workorder-management/internal/user"
	"github.com/frahmantamala/workorder-management/internal/workorder"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles everything RegisterAllRoutes wires into the router.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	WorkOrder  *workorder.Handler
	Permission *permission.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, resolver *permission.Resolver, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	guard := middleware.NewPermissionGuard(resolver, logger)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		// Permission catalog is static and safe to expose unauthenticated;
		// clients prefetch it before login to build their navigation shell.
		if h.Permission != nil {
			r.Get("/permissions/catalog", h.Permission.GetCatalog)
		}

		if h.Auth == nil {
			return
		}

		// Protected routes
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users", h.User.ListAssignable)
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.Get("/users/{id}", h.User.GetUser)
			}

			if h.WorkOrder != nil {
				pr.Route("/work-orders", func(wr chi.Router) {
					wr.Group(func(lr chi.Router) {
						lr.Use(guard.RequirePage(permission.PageWorkOrderList))
						lr.Get("/", h.WorkOrder.ListWorkOrders)
						lr.Get("/my", h.WorkOrder.MyWorkOrders)
						lr.Get("/stats", h.WorkOrder.GetStats)
					})

					// Creation is re-checked inside the service as well.
					wr.Group(func(cr chi.Router) {
						cr.Use(guard.RequirePage(permission.PageWorkOrderCreate))
						cr.Post("/", h.WorkOrder.CreateWorkOrder)
					})

					wr.Group(func(dr chi.Router) {
						dr.Use(guard.RequirePage(permission.PageWorkOrderDetail))
						dr.Get("/{id}", h.WorkOrder.GetWorkOrder)
						dr.Get("/{id}/logs", h.WorkOrder.GetLogs)
						dr.Get("/{id}/actions", h.WorkOrder.GetActions)

						// Lifecycle transitions; the per-identity guards live
						// in the service, the page guard only gates the surface.
						dr.Post("/{id}/assign", h.WorkOrder.AssignWorkOrder)
						dr.Post("/{id}/process", h.WorkOrder.ProcessWorkOrder)
						dr.Post("/{id}/finish", h.WorkOrder.FinishWorkOrder)
						dr.Post("/{id}/close", h.WorkOrder.CloseWorkOrder)
						dr.Post("/{id}/return", h.WorkOrder.ReturnWorkOrder)
					})

					wr.Group(func(er chi.Router) {
						er.Use(guard.RequirePage(permission.PageWorkOrderEdit))
						er.Put("/{id}", h.WorkOrder.UpdateWorkOrder)
					})

					wr.Group(func(xr chi.Router) {
						xr.Use(guard.RequireButton(permission.ButtonWorkOrderDelete))
						xr.Delete("/{id}", h.WorkOrder.DeleteWorkOrder)
					})
				})
			}

			// Department administration
			if h.Permission != nil {
				pr.Route("/departments", func(dr chi.Router) {
					dr.Get("/", h.Permission.GetDepartments)
					dr.Get("/{name}", h.Permission.GetDepartment)

					dr.Group(func(ar chi.Router) {
						ar.Use(guard.RequireButton(permission.ButtonSystemConfig))
						ar.Post("/", h.Permission.CreateDepartment)
						ar.Put("/{name}", h.Permission.UpdateDepartment)
						ar.Delete("/{name}", h.Permission.DeleteDepartment)
					})
				})
			}
		})
	})
}
