package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comptavision/comptavision-api/internal/domain"
)

// RequireRole restringe la ruta a los roles indicados. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - Sin principal en el contexto → 401 MISSING_TOKEN.
//   - Rol fuera del conjunto permitido → 403 FORBIDDEN.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return domain.ErrMissingToken
		}
		if _, ok := allowed[p.Role]; !ok {
			return domain.ErrForbidden
		}
		return c.Next()
	}
}
