package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comptavision/comptavision-api/internal/application/auth"
	"github.com/comptavision/comptavision-api/internal/application/license"
	"github.com/comptavision/comptavision-api/internal/application/usecase"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	LicenseUC *license.LicenseUseCase
	TenantUC  *usecase.TenantUseCase
	UserUC    *usecase.UserUseCase
	ClientUC  *usecase.ClientUseCase
	Health    *HealthHandler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Health != nil {
		app.Get("/health", deps.Health.Health)
		app.Get("/health/ready", deps.Health.Ready)
	}

	v1 := app.Group("/api/v1")
	requireAuth := AuthMiddleware(deps.AuthUC)
	adminOnly := RequireRole(entity.RoleOwner, entity.RoleAdmin)

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC, deps.LicenseUC)
	authGroup := v1.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/activate-license", authHandler.ActivateLicense)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Licencias (OWNER/ADMIN)
	licenseHandler := NewLicenseHandler(deps.LicenseUC)
	licenses := v1.Group("/admin/licenses", requireAuth, adminOnly)
	licenses.Post("/", licenseHandler.Create)
	licenses.Get("/", licenseHandler.List)
	licenses.Get("/:id", licenseHandler.GetByID)
	licenses.Patch("/:id", licenseHandler.Update)
	licenses.Post("/:id/revoke", licenseHandler.Revoke)
	licenses.Get("/:id/certificate", licenseHandler.Certificate)

	// Tenants
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenants := v1.Group("/tenants", requireAuth)
	tenants.Get("/", tenantHandler.List)
	tenants.Patch("/current", adminOnly, tenantHandler.UpdateCurrent)

	// Usuarios (OWNER/ADMIN)
	userHandler := NewUserHandler(deps.UserUC)
	users := v1.Group("/users", requireAuth, adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Patch("/:id/status", userHandler.UpdateStatus)

	// Clientes (cualquier rol autenticado)
	clientHandler := NewClientHandler(deps.ClientUC)
	clients := v1.Group("/clients", requireAuth)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)

	// 404 JSON para rutas desconocidas
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "ruta no encontrada: "+c.Method()+" "+c.Path())
	})
}
