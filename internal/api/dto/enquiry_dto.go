package dto

import "github.com/spec-kit/decor-manager/internal/domain"

// EnquiriesRequest carries the host's current records.
type EnquiriesRequest struct {
	Enquiries []domain.Enquiry `json:"enquiries"`
}

// EnquiryCreatedRequest announces a new record.
type EnquiryCreatedRequest struct {
	Enquiry domain.Enquiry `json:"enquiry"`
}

// EnquiryStatusRequest announces a status change.
type EnquiryStatusRequest struct {
	Enquiry   domain.Enquiry `json:"enquiry"`
	OldStatus string         `json:"old_status"`
	NewStatus string         `json:"new_status"`
}

// AccessResponse answers POST /enquiries/access.
type AccessResponse struct {
	EnquiryID string `json:"enquiry_id"`
	Allowed   bool   `json:"allowed"`
}
