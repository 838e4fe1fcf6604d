package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by every DomainError.
const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeExpired            = "EXPIRED"
	CodeLocked             = "LOCKED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeConflict           = "CONFLICT"
	CodeProviderFailure    = "PROVIDER_FAILURE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInternal           = "INTERNAL_ERROR"
)

// Validation reasons distinguish the ValidationError subkinds.
const (
	ReasonMissingFields        = "missing_fields"
	ReasonInvalidEmail         = "invalid_email"
	ReasonInvalidPhone         = "invalid_phone"
	ReasonInvalidRole          = "invalid_role"
	ReasonPasswordTooShort     = "password_too_short"
	ReasonPasswordMismatch     = "password_mismatch"
	ReasonResendCooldown       = "resend_cooldown"
	ReasonProviderDisabled     = "provider_disabled"
	ReasonConfirmationRequired = "confirmation_required"
	ReasonInvalidPayload       = "invalid_payload"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Reason     string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewValidationReason builds a ValidationError tagged with a subkind.
func NewValidationReason(reason, message string) error {
	de := NewDomainError(CodeValidation, message, http.StatusBadRequest, nil)
	de.Reason = reason
	return de
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewExpired(message string) error {
	return NewDomainError(CodeExpired, message, http.StatusGone, nil)
}

func NewLocked(message string) error {
	return NewDomainError(CodeLocked, message, http.StatusLocked, nil)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid email or password", http.StatusUnauthorized, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewProviderFailure hides an external provider error behind a generic message.
func NewProviderFailure(err error) error {
	return &DomainError{
		Code:       CodeProviderFailure,
		Message:    "request failed, please try again",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError with the given code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// ReasonOf returns the validation subkind carried by err, if any.
func ReasonOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Reason
	}
	return ""
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
