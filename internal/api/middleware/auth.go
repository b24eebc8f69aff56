package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"rolloutlog.com/internal/domain"
)

// Principal is the authenticated identity attached to the request after the
// token checks out. Downstream handlers read it instead of re-parsing claims.
type Principal struct {
	ID    uint
	Email string
	Name  string
}

const localsPrincipalKey = "principal"

// TokenFromRequest extracts the session token, preferring the http-only
// cookie and falling back to a Bearer header for cookieless deployments.
func TokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies("token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// Authenticate guards protected routes. The service re-resolves the token's
// user against the live store on every request, so a soft-deleted account is
// locked out before its token expires.
func Authenticate(authSvc domain.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c)

		user, err := authSvc.Authenticate(c.UserContext(), token)
		if err != nil {
			var appErr *domain.AppError
			if errors.As(err, &appErr) {
				return c.Status(appErr.Code).JSON(fiber.Map{"error": appErr.Message})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals(localsPrincipalKey, Principal{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.DisplayName(),
		})
		return c.Next()
	}
}

// PrincipalFromCtx returns the identity stored by Authenticate.
func PrincipalFromCtx(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(localsPrincipalKey).(Principal)
	return p, ok
}
