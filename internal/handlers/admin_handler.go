package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/quizarena/backend/internal/dto"
	"github.com/quizarena/backend/internal/models"
	"github.com/quizarena/backend/internal/services"
	"gorm.io/gorm"
)

// AdminHandler is the moderation review console surface.
type AdminHandler struct {
	db                *gorm.DB
	moderationService *services.ModerationService
	policyStore       *services.PolicyStore
}

func NewAdminHandler(db *gorm.DB, moderationService *services.ModerationService, policyStore *services.PolicyStore) *AdminHandler {
	return &AdminHandler{db: db, moderationService: moderationService, policyStore: policyStore}
}

func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	targetID, _ := strconv.ParseInt(c.Query("target_id", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	reports, total, err := h.moderationService.ListReports(targetID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch reports",
		})
	}
	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *AdminHandler) ListSanctions(c *fiber.Ctx) error {
	accountID, _ := strconv.ParseInt(c.Query("account_id", "0"), 10, 64)
	activeOnly := c.Query("active", "") == "true"
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	sanctions, total, err := h.moderationService.ListSanctions(accountID, activeOnly, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch sanctions",
		})
	}
	return c.JSON(fiber.Map{
		"sanctions": sanctions,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *AdminHandler) LiftSanction(c *fiber.Ctx) error {
	sanctionID, err := c.ParamsInt("id")
	if err != nil || sanctionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid sanction ID",
		})
	}

	if err := h.moderationService.LiftSanction(int64(sanctionID)); err != nil {
		if errors.Is(err, services.ErrSanctionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to lift sanction",
		})
	}
	return c.JSON(fiber.Map{"message": "Sanction lifted"})
}

// UpdatePolicy writes the singleton policy row and hot-reloads the cache.
// Invalid values are rejected by the policy store's invariant check before
// any request path can observe them.
func (h *AdminHandler) UpdatePolicy(c *fiber.Ctx) error {
	var req dto.UpdatePolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	updates := models.ModerationPolicy{
		ID:                       1,
		ReportsRequired:          req.ReportsRequired,
		ReportsWindowMinutes:     req.ReportsWindowMinutes,
		DuplicateCooldownMinutes: req.DuplicateCooldownMinutes,
		MaxTemporarySanctions:    req.MaxTemporarySanctions,
		BanOnSanctionNumber:      req.BanOnSanctionNumber,
		CommentMaxLength:         req.CommentMaxLength,
	}
	if err := h.policyStore.Validate(updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Policy rejected: " + err.Error(),
		})
	}
	if err := h.db.Save(&updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update policy",
		})
	}

	if err := h.policyStore.Reload(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Policy rejected: " + err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Policy updated"})
}
