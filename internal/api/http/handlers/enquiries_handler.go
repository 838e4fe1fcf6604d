package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/decor-manager/internal/api/dto"
	"github.com/spec-kit/decor-manager/internal/auth"
	"github.com/spec-kit/decor-manager/internal/domain"
	"github.com/spec-kit/decor-manager/internal/events"
	"github.com/spec-kit/decor-manager/internal/service"
	apperrors "github.com/spec-kit/decor-manager/pkg/util"
)

// EnquiriesHandler receives records and business events from the host application.
type EnquiriesHandler struct {
	dispatcher events.Dispatcher
}

// NewEnquiriesHandler constructs handler.
func NewEnquiriesHandler(dispatcher events.Dispatcher) *EnquiriesHandler {
	return &EnquiriesHandler{dispatcher: dispatcher}
}

// Access handles POST /enquiries/access.
func (h *EnquiriesHandler) Access(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var record domain.Enquiry
	if err := c.BodyParser(&record); err != nil {
		return invalidPayload()
	}
	return c.JSON(fiber.Map{"data": dto.AccessResponse{
		EnquiryID: record.ID,
		Allowed:   service.CanAccess(&principal.Identity, record),
	}})
}

// Replace handles PUT /enquiries.
func (h *EnquiriesHandler) Replace(c *fiber.Ctx) error {
	var req dto.EnquiriesRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if err := h.publish(c, events.EventEnquiriesReplaced, "", events.EnquiriesReplacedPayload{Enquiries: req.Enquiries}); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Created handles POST /enquiries/events/created.
func (h *EnquiriesHandler) Created(c *fiber.Ctx) error {
	var req dto.EnquiryCreatedRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if req.Enquiry.ID == "" {
		return apperrors.NewValidationReason(apperrors.ReasonMissingFields, "enquiry.id required")
	}
	if err := h.publish(c, events.EventEnquiryCreated, req.Enquiry.ID, events.EnquiryCreatedPayload{Enquiry: req.Enquiry}); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// StatusChanged handles POST /enquiries/events/status.
func (h *EnquiriesHandler) StatusChanged(c *fiber.Ctx) error {
	var req dto.EnquiryStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if req.Enquiry.ID == "" || req.NewStatus == "" {
		return apperrors.NewValidationReason(apperrors.ReasonMissingFields, "enquiry.id and new_status required")
	}
	payload := events.EnquiryStatusChangedPayload{Enquiry: req.Enquiry, OldStatus: req.OldStatus, NewStatus: req.NewStatus}
	if err := h.publish(c, events.EventEnquiryStatusChanged, req.Enquiry.ID, payload); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func (h *EnquiriesHandler) publish(c *fiber.Ctx, eventType events.EventType, enquiryID string, payload interface{}) error {
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EnquiryID: enquiryID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		event.ActorID = principal.Identity.ID
	}
	if err := h.dispatcher.Publish(c.UserContext(), event); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
