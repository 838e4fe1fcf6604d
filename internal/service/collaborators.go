package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/decor-manager/internal/domain"
)

// CredentialProvider is the external identity service used outside demo mode.
type CredentialProvider interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (string, error)
	SignOut(ctx context.Context, identityID string) error
	FetchProfile(ctx context.Context, id string) (*domain.Identity, error)
	InsertProfile(ctx context.Context, identity *domain.Identity) error
}

// OTPSender delivers a one-time code to a phone.
type OTPSender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// HostUI is the host page's banner and tab-switching surface.
type HostUI interface {
	Toast(message, kind string)
	ShowTab(name string)
}

// Chime plays the audible cue for urgent alerts.
type Chime interface {
	Chime(ctx context.Context, alert domain.Alert)
}

// Pusher forwards an alert to an out-of-page channel.
type Pusher interface {
	Push(ctx context.Context, alert domain.Alert) error
}

// LogOTPSender stands in for an SMS gateway.
type LogOTPSender struct {
	Logger *zap.Logger
}

// SendOTP logs the code instead of delivering it.
func (s LogOTPSender) SendOTP(_ context.Context, phone, code string) error {
	s.Logger.Info("otp issued", zap.String("phone", phone), zap.String("code", code))
	return nil
}

// LogHostUI writes host UI calls to the log.
type LogHostUI struct {
	Logger *zap.Logger
}

// Toast logs the banner at info level.
func (u LogHostUI) Toast(message, kind string) {
	u.Logger.Info("toast", zap.String("kind", kind), zap.String("message", message))
}

// ShowTab logs the tab switch.
func (u LogHostUI) ShowTab(name string) {
	u.Logger.Debug("show tab", zap.String("tab", name))
}

// LogChime records the cue in the log.
type LogChime struct {
	Logger *zap.Logger
}

// Chime logs the urgent alert.
func (c LogChime) Chime(_ context.Context, alert domain.Alert) {
	c.Logger.Info("alert chime", zap.String("alert_id", alert.ID), zap.String("type", string(alert.Type)))
}

func hostOrLog(ui HostUI, logger *zap.Logger) HostUI {
	if ui != nil {
		return ui
	}
	return LogHostUI{Logger: logger}
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
