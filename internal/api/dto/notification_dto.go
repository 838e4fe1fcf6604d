package dto

import "github.com/spec-kit/decor-manager/internal/domain"

// NotificationListResponse lists alerts, most recent first.
type NotificationListResponse struct {
	Notifications []domain.Alert `json:"notifications"`
	Unread        int            `json:"unread"`
}

// CheckResponse reports the outcome of a manual scan.
type CheckResponse struct {
	Created int `json:"created"`
}
