package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"bagbanter-api/src/infrastructure/log"
	"bagbanter-api/src/services/auth"
)

const (
	SessionCookie = "admin_session"

	principalKey = "principal"
)

// RequireAdmin lets the request through only with a valid admin session,
// taken from the session cookie or a bearer token.
func RequireAdmin(authenticator auth.Authenticator, logger log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := authenticator.Authenticate(c.UserContext(), Credential(c))
		if err == nil {
			err = authenticator.Authorize(principal, auth.RoleAdmin)
		}
		if err != nil {
			return WriteError(c, logger, err)
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// Credential returns the session token the request carries, if any.
func Credential(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

// PrincipalFrom returns the principal RequireAdmin stored on the request.
func PrincipalFrom(c *fiber.Ctx) *auth.Principal {
	principal, _ := c.Locals(principalKey).(*auth.Principal)
	return principal
}
