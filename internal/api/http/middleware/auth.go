package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	pasetotoken "github.com/Alijeyrad/triage_backend/pkg/paseto"
	"github.com/Alijeyrad/triage_backend/pkg/reqctx"
)

// DoctorAuth validates a Bearer PASETO access token issued at doctor login
// and stores its claims on the request context.
//
// When required is false the dashboard keeps working without a token and a
// missing or bad token only leaves the request anonymous.
func DoctorAuth(mgr *pasetotoken.Manager, required bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := bearerClaims(c, mgr)
		if !ok {
			if required {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "Unauthorized"})
			}
			return c.Next()
		}

		c.SetContext(reqctx.WithClaims(c.Context(), claims))
		return c.Next()
	}
}

func bearerClaims(c fiber.Ctx, mgr *pasetotoken.Manager) (*pasetotoken.Claims, bool) {
	if mgr == nil {
		return nil, false
	}
	h := c.Get(fiber.HeaderAuthorization)
	if h == "" {
		return nil, false
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	claims, err := mgr.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, false
	}
	// Only access tokens are accepted on doctor routes
	if claims.Type != pasetotoken.TokenTypeAccess {
		return nil, false
	}
	return claims, true
}
