package handlers

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/quizarena/backend/internal/dto"
	"github.com/quizarena/backend/internal/faults"
	"github.com/quizarena/backend/internal/ratelimit"
	"github.com/quizarena/backend/internal/services"
)

type ReportHandler struct {
	reportService     *services.ReportService
	moderationService *services.ModerationService
	sessionService    *services.SessionService
	limiter           *ratelimit.Limiter
}

func NewReportHandler(
	reportService *services.ReportService,
	moderationService *services.ModerationService,
	sessionService *services.SessionService,
	limiter *ratelimit.Limiter,
) *ReportHandler {
	return &ReportHandler{
		reportService:     reportService,
		moderationService: moderationService,
		sessionService:    sessionService,
		limiter:           limiter,
	}
}

// SubmitReport is the single client-facing moderation operation.
func (h *ReportHandler) SubmitReport(c *fiber.Ctx) error {
	if !h.limiter.Allow(c.Context(), c.IP()) {
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Error: true, Message: "Too many reports, slow down",
		})
	}

	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.reportService.SubmitReport(&req)
	if err != nil {
		return writeFault(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ReportHandler) Block(c *fiber.Ctx) error {
	accountID, err := h.authenticate(c)
	if err != nil {
		return writeFault(c, err)
	}

	var req dto.BlockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.moderationService.BlockAccount(accountID, req.BlockedAccountID); err != nil {
		if errors.Is(err, services.ErrSelfBlock) || errors.Is(err, services.ErrAlreadyBlocked) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to block account",
		})
	}
	return c.JSON(fiber.Map{"message": "Account blocked"})
}

func (h *ReportHandler) Unblock(c *fiber.Ctx) error {
	accountID, err := h.authenticate(c)
	if err != nil {
		return writeFault(c, err)
	}

	blockedID, err := c.ParamsInt("id")
	if err != nil || blockedID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid account ID",
		})
	}

	if err := h.moderationService.UnblockAccount(accountID, int64(blockedID)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to unblock account",
		})
	}
	return c.JSON(fiber.Map{"message": "Account unblocked"})
}

func (h *ReportHandler) ListBlocked(c *fiber.Ctx) error {
	accountID, err := h.authenticate(c)
	if err != nil {
		return writeFault(c, err)
	}

	ids, err := h.moderationService.GetBlockedIDs(accountID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch blocked accounts",
		})
	}
	return c.JSON(fiber.Map{"blocked_account_ids": ids})
}

// authenticate resolves the session token from the X-Session-Token header.
func (h *ReportHandler) authenticate(c *fiber.Ctx) (int64, error) {
	return h.sessionService.Authenticate(c.Get("X-Session-Token"))
}

// writeFault maps a typed fault onto an HTTP response. Raw errors never
// reach the client.
func writeFault(c *fiber.Ctx, err error) error {
	fault, ok := faults.IsFault(err)
	if !ok {
		fault = faults.New(faults.CodeUnexpected, "infra.unexpected")
	}

	status := fiber.StatusInternalServerError
	switch fault.Code {
	case faults.CodeRequestNull, faults.CodeInvalidReason, faults.CodeCommentTooLong,
		faults.CodeInvalidTarget, faults.CodeSelfReport:
		status = fiber.StatusBadRequest
	case faults.CodeTokenInvalid:
		status = fiber.StatusUnauthorized
	case faults.CodeDbError:
		status = fiber.StatusConflict
	case faults.CodeTimeout:
		status = fiber.StatusGatewayTimeout
	case faults.CodeCommunication:
		status = fiber.StatusBadGateway
	case faults.CodeConfiguration, faults.CodeUnexpected:
		status = fiber.StatusInternalServerError
		sentry.CaptureException(fault)
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:      true,
		Code:       string(fault.Code),
		MessageKey: fault.MessageKey,
		Message:    "Request failed: " + fault.MessageKey,
	})
}
