package middleware

import (
	"strings"

	"imc-punching/internal/config"
	"imc-punching/internal/core/domain"
	"imc-punching/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// identityKey is the Locals key holding the caller's domain.Identity
const identityKey = "identity"

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Bearer token from Authorization header
		authHeader := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return domain.ErrUnauthorized
		}
		accessToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if accessToken == "" {
			return domain.ErrUnauthorized
		}

		// 2. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			return domain.ErrTokenInvalid
		}

		// 3. Set identity in context
		c.Locals(identityKey, domain.Identity{
			UserID:   claims.UserID,
			ClientID: claims.ClientID,
			IsAdmin:  claims.IsAdmin,
		})

		return c.Next()
	}
}

// AdminOnly allows only identities carrying the admin flag
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, ok := IdentityFrom(c)
		if !ok {
			return domain.ErrUnauthorized
		}
		if !who.IsAdmin {
			return domain.ErrForbidden
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthMiddleware
func IdentityFrom(c *fiber.Ctx) (domain.Identity, bool) {
	who, ok := c.Locals(identityKey).(domain.Identity)
	return who, ok
}
