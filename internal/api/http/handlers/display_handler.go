package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-center/internal/api/dto"
	"github.com/spec-kit/service-center/internal/observability"
	"github.com/spec-kit/service-center/internal/service"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// DisplayHandler serves the public call screen and the metrics snapshot.
type DisplayHandler struct {
	notifications *service.NotificationService
	metrics       *observability.Metrics
}

// NewDisplayHandler constructs handler.
func NewDisplayHandler(notifications *service.NotificationService, metrics *observability.Metrics) *DisplayHandler {
	return &DisplayHandler{notifications: notifications, metrics: metrics}
}

// Show GET /display.
func (h *DisplayHandler) Show(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.notifications.Board().State()})
}

// Update PUT /admin/display.
func (h *DisplayHandler) Update(c *fiber.Ctx) error {
	var req dto.DisplayMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !h.notifications.UpdateDisplay(c.UserContext(), req.Message) {
		return apperrors.NewValidationError("message required", nil)
	}
	return c.JSON(fiber.Map{"data": h.notifications.Board().State()})
}

// Clear DELETE /admin/display.
func (h *DisplayHandler) Clear(c *fiber.Ctx) error {
	h.notifications.ClearDisplay(c.UserContext())
	return c.JSON(fiber.Map{"data": h.notifications.Board().State()})
}

// Metrics GET /metrics.
func (h *DisplayHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
