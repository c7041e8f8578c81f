package middleware

import (
	"github.com/castlinked/castlinked-backend/internal/config"
	"github.com/castlinked/castlinked-backend/internal/dto"
	"github.com/castlinked/castlinked-backend/internal/identity"
	"github.com/castlinked/castlinked-backend/internal/principal"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired gates the admin console. It accepts a principal whose signed
// role claim or config-based allow-list grants admin, and falls back to the
// users table so a freshly promoted admin does not need a new token.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	users := identity.NewDirectory(db)
	return func(c *fiber.Ctx) error {
		p, err := principal.FromCtx(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if p.Admin || users.IsAdmin(p.ID) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}
