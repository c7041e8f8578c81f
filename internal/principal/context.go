// Package principal extracts the authenticated caller from Fiber context.
package principal

import (
	"errors"
	"strings"

	"github.com/castlinked/castlinked-backend/internal/config"
	"github.com/castlinked/castlinked-backend/internal/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// FromCtx builds the policy principal from JWT claims. Admin standing comes
// from the signed role claim or the config-based admin lists.
func FromCtx(c *fiber.Ctx, cfg *config.Config) (policy.Principal, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return policy.Principal{}, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return policy.Principal{}, errors.New("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return policy.Principal{}, errors.New("missing or malformed sub claim")
	}

	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	admin := role == "admin" ||
		containsCSV(cfg.AdminEmails, email) ||
		containsCSV(cfg.AdminUserIDs, sub)

	return policy.Principal{ID: id, Admin: admin}, nil
}

// UserID extracts just the caller's id.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}
	return uuid.Parse(sub)
}

func containsCSV(csv, val string) bool {
	if csv == "" || val == "" {
		return false
	}
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == val {
			return true
		}
	}
	return false
}
