package events

import (
	"time"

	"github.com/spec-kit/decor-manager/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEnquiryCreated       EventType = "enquiry_created"
	EventEnquiryStatusChanged EventType = "enquiry_status_changed"
	EventEnquiriesReplaced    EventType = "enquiries_replaced"
)

// Event represents a business event pushed by the host application.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EnquiryID string      `json:"enquiry_id,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EnquiryCreatedPayload payload.
type EnquiryCreatedPayload struct {
	Enquiry domain.Enquiry `json:"enquiry"`
}

// EnquiryStatusChangedPayload payload.
type EnquiryStatusChangedPayload struct {
	Enquiry   domain.Enquiry `json:"enquiry"`
	OldStatus string         `json:"old_status"`
	NewStatus string         `json:"new_status"`
}

// EnquiriesReplacedPayload payload.
type EnquiriesReplacedPayload struct {
	Enquiries []domain.Enquiry `json:"enquiries"`
}
