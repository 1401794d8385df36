package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/session"
)

// Allow-lists shared by route groups.
var (
	AdminOnly    = []domain.Role{domain.RoleAdmin}
	Staff        = []domain.Role{domain.RoleAdmin, domain.RoleTecnico}
	AnyKnownRole = []domain.Role{domain.RoleAdmin, domain.RoleTecnico, domain.RoleUsuario}
)

// RequireRole admits only principals whose role is in allowed. It must run after Authenticate.
func (g *Gate) RequireRole(allowed ...domain.Role) fiber.Handler {
	allowList := append([]domain.Role(nil), allowed...)

	return func(c *fiber.Ctx) error {
		var role domain.Role
		if principal, ok := PrincipalFromContext(c); ok {
			role = principal.Role
		}
		decision := CheckRole(role, allowList)
		if !decision.Admit {
			return g.reject(c, session.Current(c), decision)
		}
		return c.Next()
	}
}

// Protect chains Authenticate and RequireRole for a route.
func (g *Gate) Protect(allowed ...domain.Role) []fiber.Handler {
	return []fiber.Handler{g.Authenticate, g.RequireRole(allowed...)}
}
