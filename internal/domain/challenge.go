package domain

import "time"

// Challenge is the single active one-time code of a client session.
type Challenge struct {
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
	Attempts  int       `json:"attempts"`
}

// Expired reports whether now is past the expiry.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Matches compares both the code and the phone.
func (c Challenge) Matches(phone, code string) bool {
	return c.Code == code && NormalizePhone(c.Phone) == NormalizePhone(phone)
}

// OTPStep is the position in the phone login state machine.
type OTPStep string

const (
	StepAwaitingPhone OTPStep = "AWAITING_PHONE"
	StepAwaitingCode  OTPStep = "AWAITING_CODE"
	StepAuthenticated OTPStep = "AUTHENTICATED"
)

// OTPFlow tracks the login step and the phone used for verify and resend.
type OTPFlow struct {
	Step              OTPStep   `json:"step"`
	Phone             string    `json:"phone,omitempty"`
	ResendAvailableAt time.Time `json:"resendAvailableAt,omitempty"`
}

// ResendIn returns the whole seconds left on the resend countdown.
func (f OTPFlow) ResendIn(now time.Time) int {
	if f.ResendAvailableAt.IsZero() || !now.Before(f.ResendAvailableAt) {
		return 0
	}
	left := f.ResendAvailableAt.Sub(now)
	secs := int(left / time.Second)
	if left%time.Second != 0 {
		secs++
	}
	return secs
}

// AuthProviders toggles the available login methods.
type AuthProviders struct {
	Email  bool `json:"email"`
	Phone  bool `json:"phone"`
	Google bool `json:"google"`
	Github bool `json:"github"`
}

// DefaultAuthProviders enables email and phone login.
func DefaultAuthProviders() AuthProviders {
	return AuthProviders{Email: true, Phone: true}
}
