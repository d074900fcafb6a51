package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/quizarena/backend/internal/config"
	"github.com/quizarena/backend/internal/dto"
)

// JWTProtected guards the moderation console routes. Game clients never
// carry a JWT; they authenticate with the opaque X-Session-Token header
// inside the handlers, so this middleware applies to staff endpoints only.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}
