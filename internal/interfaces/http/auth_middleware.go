package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/comptavision/comptavision-api/internal/application/auth"
	"github.com/comptavision/comptavision-api/internal/domain"
)

// LocalPrincipal clave de c.Locals donde queda el principal autenticado.
const LocalPrincipal = "principal"

// SessionValidator valida un token y devuelve el principal. Lo implementa *auth.AuthUseCase.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*auth.Principal, error)
}

// AuthMiddleware valida el Bearer Token (firma, expiración y usuario/tenant activos)
// y deja el principal en c.Locals.
func AuthMiddleware(sessions SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return domain.ErrMissingToken
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return domain.ErrInvalidToken
		}
		p, err := sessions.ValidateSession(c.UserContext(), parts[1])
		if err != nil {
			return err
		}
		c.Locals(LocalPrincipal, p)
		return c.Next()
	}
}

// GetPrincipal devuelve el principal del contexto (nil si la ruta no pasó por AuthMiddleware).
func GetPrincipal(c *fiber.Ctx) *auth.Principal {
	p, _ := c.Locals(LocalPrincipal).(*auth.Principal)
	return p
}

// GetUserID devuelve el UserID del principal.
func GetUserID(c *fiber.Ctx) string {
	if p := GetPrincipal(c); p != nil {
		return p.UserID
	}
	return ""
}

// GetTenantID devuelve el TenantID del principal.
func GetTenantID(c *fiber.Ctx) string {
	if p := GetPrincipal(c); p != nil {
		return p.TenantID
	}
	return ""
}

// GetRole devuelve el rol del principal.
func GetRole(c *fiber.Ctx) string {
	if p := GetPrincipal(c); p != nil {
		return p.Role
	}
	return ""
}
