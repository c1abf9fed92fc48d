package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"tripdocs/internal/cache"
	"tripdocs/internal/model"
)

// IdentityLocalKey stores the authenticated caller in Fiber's context locals.
const IdentityLocalKey = "identity"

// Identity retrieves the caller set by RequireAuth. The zero value means the
// request was not authenticated.
func Identity(c *fiber.Ctx) model.Identity {
	id, _ := c.Locals(IdentityLocalKey).(model.Identity)
	return id
}

type authClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAuth validates the Bearer token on the request, rejects revoked
// tokens via the blacklist, and places the caller's Identity in locals.
// Share-link endpoints do not use it; there the token in the URL is the
// credential.
func RequireAuth(secret string, blacklist cache.TokenBlacklist, log *zap.Logger) fiber.Handler {
	keyFunc := func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	}

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": fiber.Map{"code": "UNAUTHORIZED", "message": "missing or malformed authorization header"},
			})
		}

		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, keyFunc,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": fiber.Map{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
		}

		if blacklist != nil {
			revoked, err := blacklist.Contains(c.UserContext(), raw)
			if err != nil {
				// The blacklist is an availability dependency only for
				// revocation; fail open but loudly.
				log.Warn("token blacklist lookup failed", zap.Error(err))
			} else if revoked {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": fiber.Map{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
				})
			}
		}

		c.Locals(IdentityLocalKey, model.Identity{ID: claims.UserID, Role: claims.Role})
		return c.Next()
	}
}
