package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/service"
	apperrors "github.com/zeus-agencias/kontrol-tiquetes/pkg/util"
)

// NotificationsHandler serves the advisory ledger.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /notifications, newest first.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	entries := h.service.List()
	return c.JSON(fiber.Map{
		"total":         len(entries),
		"notifications": entries,
	})
}

// MarkRead POST /notifications/:id/read. Idempotent.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	h.service.MarkRead(c.Params("id"))
	return c.JSON(fiber.Map{"success": true})
}

// Dismiss DELETE /notifications/:id. Idempotent.
func (h *NotificationsHandler) Dismiss(c *fiber.Ctx) error {
	h.service.Dismiss(c.Params("id"))
	return c.JSON(fiber.Map{"success": true})
}

// GenerateDemo POST /notifications/demo. Only active when the demo
// generator is enabled in configuration.
func (h *NotificationsHandler) GenerateDemo(c *fiber.Ctx) error {
	var req struct {
		Category string `json:"category"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category := domain.NotificationCategory(strings.ToLower(strings.TrimSpace(req.Category)))
	entry, err := h.service.GenerateDemo(category)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"notification": entry})
}
