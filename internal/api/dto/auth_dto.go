package dto

import (
	"time"

	"github.com/spec-kit/decor-manager/internal/domain"
)

// SendOTPRequest payload for POST /auth/otp/send.
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest payload for POST /auth/otp/verify. Phone defaults to the one the code was sent to.
type VerifyOTPRequest struct {
	Phone    string `json:"phone"`
	Code     string `json:"code"`
	Remember bool   `json:"remember"`
}

// EmailLoginRequest payload for POST /auth/login.
type EmailLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// RegisterRequest payload for POST /auth/register.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse describes the authenticated identity.
type SessionResponse struct {
	User        domain.Identity `json:"user"`
	Role        domain.RoleInfo `json:"role"`
	Permissions []string        `json:"permissions"`
	Auth        *AuthResponse   `json:"auth,omitempty"`
}

// VerifyOTPResponse reports a code check that did not authenticate.
type VerifyOTPResponse struct {
	Matched           bool `json:"matched"`
	AttemptsRemaining int  `json:"attemptsRemaining"`
}

// PermissionResponse answers GET /auth/permissions/:perm.
type PermissionResponse struct {
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}
