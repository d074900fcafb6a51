package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quizarena/backend/internal/config"
	"github.com/quizarena/backend/internal/dto"
	"github.com/quizarena/backend/internal/models"
	"gorm.io/gorm"
)

// AdminRequired guards the moderation console. It accepts:
// 1. the config admin token header
// 2. a JWT whose username is in the configured admin list
// 3. a JWT whose account carries a staff role in the database
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminUsernames := parseCSV(cfg.AdminUsernames)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			if c.Get("X-Admin-Token") == cfg.AdminToken {
				return c.Next()
			}
		}

		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}

		username, _ := claims["username"].(string)
		sub, _ := claims["sub"].(string)

		if contains(adminUsernames, username) {
			return c.Next()
		}

		if sub != "" {
			accountID, err := strconv.ParseInt(sub, 10, 64)
			if err == nil {
				var account models.Account
				if err := db.First(&account, "id = ?", accountID).Error; err == nil {
					if account.Role == "admin" || account.Role == "moderator" {
						return c.Next()
					}
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
