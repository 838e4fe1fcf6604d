package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/decor-manager/internal/api/dto"
	"github.com/spec-kit/decor-manager/internal/domain"
	"github.com/spec-kit/decor-manager/internal/service"
)

// NotificationsHandler exposes the notification center.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List handles GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	alerts := h.notifications.List()
	unread := 0
	for _, alert := range alerts {
		if !alert.Read {
			unread++
		}
	}
	return c.JSON(fiber.Map{"data": dto.NotificationListResponse{Notifications: alerts, Unread: unread}})
}

// Stats handles GET /notifications/stats.
func (h *NotificationsHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.notifications.Stats()})
}

// Check handles POST /notifications/check.
func (h *NotificationsHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.CheckResponse{Created: h.notifications.Check(c.UserContext())}})
}

// MarkRead handles POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Open handles POST /notifications/:id/open.
func (h *NotificationsHandler) Open(c *fiber.Ctx) error {
	alert, err := h.notifications.OpenAlert(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": alert})
}

// MarkAllRead handles POST /notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	h.notifications.MarkAllRead(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear handles DELETE /notifications?confirm=true.
func (h *NotificationsHandler) Clear(c *fiber.Ctx) error {
	if err := h.notifications.ClearAll(c.UserContext(), c.QueryBool("confirm", false)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Settings handles GET /notifications/settings.
func (h *NotificationsHandler) Settings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.notifications.Settings()})
}

// UpdateSettings handles PUT /notifications/settings.
func (h *NotificationsHandler) UpdateSettings(c *fiber.Ctx) error {
	var patch domain.NotificationSettingsPatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidPayload()
	}
	return c.JSON(fiber.Map{"data": h.notifications.UpdateSettings(c.UserContext(), patch)})
}

// Enable handles POST /notifications/enable.
func (h *NotificationsHandler) Enable(c *fiber.Ctx) error {
	var req dto.EnquiriesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidPayload()
		}
	}
	h.notifications.Init(req.Enquiries)
	return c.JSON(fiber.Map{"data": h.notifications.Stats()})
}

// Disable handles POST /notifications/disable.
func (h *NotificationsHandler) Disable(c *fiber.Ctx) error {
	h.notifications.Disable()
	return c.JSON(fiber.Map{"data": h.notifications.Stats()})
}
