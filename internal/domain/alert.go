package domain

import "time"

// AlertType identifies what produced an alert.
type AlertType string

const (
	AlertOverdue         AlertType = "overdue"
	AlertDueToday        AlertType = "due-today"
	AlertUpcomingWedding AlertType = "upcoming-wedding"
	AlertNewEnquiry      AlertType = "new-enquiry"
	AlertStatusChange    AlertType = "status-change"
)

// Alert is a persisted notice shown in the notification center.
type Alert struct {
	ID          string    `json:"id"`
	Type        AlertType `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	EnquiryID   string    `json:"enquiryId,omitempty"`
	Urgent      bool      `json:"urgent"`
	Read        bool      `json:"read"`
	DaysOverdue int       `json:"daysOverdue,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationSettings holds per-type enables and delivery toggles.
type NotificationSettings struct {
	Overdue              bool `json:"overdue"`
	Today                bool `json:"today"`
	NewEnquiry           bool `json:"newEnquiry"`
	StatusChange         bool `json:"statusChange"`
	UpcomingWedding      bool `json:"upcomingWedding"`
	Sound                bool `json:"sound"`
	BrowserNotifications bool `json:"browserNotifications"`
}

// DefaultNotificationSettings enables every alert type and the sound cue.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Overdue:         true,
		Today:           true,
		NewEnquiry:      true,
		StatusChange:    true,
		UpcomingWedding: true,
		Sound:           true,
	}
}

// Enabled reports whether alerts of type t are switched on.
func (s NotificationSettings) Enabled(t AlertType) bool {
	switch t {
	case AlertOverdue:
		return s.Overdue
	case AlertDueToday:
		return s.Today
	case AlertUpcomingWedding:
		return s.UpcomingWedding
	case AlertNewEnquiry:
		return s.NewEnquiry
	case AlertStatusChange:
		return s.StatusChange
	default:
		return false
	}
}

// NotificationSettingsPatch carries a partial settings update.
type NotificationSettingsPatch struct {
	Overdue              *bool `json:"overdue,omitempty"`
	Today                *bool `json:"today,omitempty"`
	NewEnquiry           *bool `json:"newEnquiry,omitempty"`
	StatusChange         *bool `json:"statusChange,omitempty"`
	UpcomingWedding      *bool `json:"upcomingWedding,omitempty"`
	Sound                *bool `json:"sound,omitempty"`
	BrowserNotifications *bool `json:"browserNotifications,omitempty"`
}

// Apply returns s with every non-nil field of p applied.
func (p NotificationSettingsPatch) Apply(s NotificationSettings) NotificationSettings {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Overdue, p.Overdue)
	set(&s.Today, p.Today)
	set(&s.NewEnquiry, p.NewEnquiry)
	set(&s.StatusChange, p.StatusChange)
	set(&s.UpcomingWedding, p.UpcomingWedding)
	set(&s.Sound, p.Sound)
	set(&s.BrowserNotifications, p.BrowserNotifications)
	return s
}

// NotificationStats summarises the alert history.
type NotificationStats struct {
	Total     int                  `json:"total"`
	Unread    int                  `json:"unread"`
	ByType    map[AlertType]int    `json:"byType"`
	IsEnabled bool                 `json:"isEnabled"`
	Settings  NotificationSettings `json:"settings"`
}
