package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/decor-manager/internal/domain"
	"github.com/spec-kit/decor-manager/internal/repository"
	apperrors "github.com/spec-kit/decor-manager/pkg/util"
)

// VerifyResult is the outcome of a code check that did not raise an error.
type VerifyResult struct {
	Identity          *domain.Identity `json:"identity,omitempty"`
	Matched           bool             `json:"matched"`
	AttemptsRemaining int              `json:"attemptsRemaining"`
}

// OTPStatus reports where the phone login flow stands.
type OTPStatus struct {
	Step     domain.OTPStep `json:"step"`
	Phone    string         `json:"phone,omitempty"`
	ResendIn int            `json:"resendIn"`
}

// SendOTP issues a fresh challenge for phone and starts the resend countdown.
func (s *Session) SendOTP(ctx context.Context, phone string) error {
	if !s.Providers(ctx).Phone {
		return apperrors.NewValidationReason(apperrors.ReasonProviderDisabled, "phone login is disabled")
	}
	phone = strings.TrimSpace(phone)
	if !domain.ValidPhone(phone) {
		s.svc.metrics.RecordOTP("invalid_phone")
		return apperrors.NewValidationReason(apperrors.ReasonInvalidPhone, "please enter a valid phone number")
	}
	if err := pause(ctx, s.svc.latency); err != nil {
		return err
	}

	now := s.svc.clock.Now()
	challenge := domain.Challenge{
		Phone:     phone,
		Code:      s.svc.otpCode,
		ExpiresAt: now.Add(s.svc.otpTTL),
	}
	if err := s.svc.sender.SendOTP(ctx, phone, challenge.Code); err != nil {
		s.svc.metrics.RecordOTP("send_failed")
		return apperrors.NewProviderFailure(err)
	}

	unlock := s.svc.challengeLocks.lock(s.client)
	s.write(ctx, s.scoped, keyChallenge, challenge)
	unlock()
	s.write(ctx, s.scoped, keyOTPFlow, domain.OTPFlow{
		Step:              domain.StepAwaitingCode,
		Phone:             phone,
		ResendAvailableAt: now.Add(s.svc.resendCooldown),
	})
	s.svc.metrics.RecordOTP("sent")
	s.svc.host.Toast("OTP sent successfully!", "success")
	return nil
}

// VerifyOTP checks code against the active challenge. A blank phone falls back
// to the phone remembered by the flow.
func (s *Session) VerifyOTP(ctx context.Context, phone, code string, remember bool) (*VerifyResult, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		if flow, ok := s.flow(ctx); ok {
			phone = flow.Phone
		}
	}

	defer s.svc.challengeLocks.lock(s.client)()

	var challenge domain.Challenge
	if ok := s.read(ctx, s.scoped, keyChallenge, &challenge); !ok {
		s.svc.metrics.RecordOTP("missing")
		return nil, apperrors.NewNotFound("otp", nil)
	}

	if challenge.Expired(s.svc.clock.Now()) {
		s.discardChallenge(ctx)
		s.svc.metrics.RecordOTP("expired")
		return nil, apperrors.NewExpired("OTP has expired, please request a new one")
	}

	if !challenge.Matches(phone, strings.TrimSpace(code)) {
		challenge.Attempts++
		if challenge.Attempts >= s.svc.maxAttempts {
			s.discardChallenge(ctx)
			s.svc.metrics.RecordOTP("locked")
			return nil, apperrors.NewLocked("too many failed attempts, please request a new OTP")
		}
		s.write(ctx, s.scoped, keyChallenge, challenge)
		s.svc.metrics.RecordOTP("mismatch")
		return &VerifyResult{AttemptsRemaining: s.svc.maxAttempts - challenge.Attempts}, nil
	}

	s.discardChallenge(ctx)
	identity, err := s.svc.directory.FindByPhone(ctx, challenge.Phone)
	if err != nil || !identity.IsActive {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.svc.logger.Warn("directory lookup failed", zap.Error(err))
		}
		s.svc.metrics.RecordOTP("unknown_phone")
		return nil, apperrors.NewNotFound("user", map[string]any{"phone": challenge.Phone})
	}

	s.establish(ctx, *identity, remember)
	s.svc.metrics.RecordOTP("verified")
	s.svc.metrics.RecordLogin("otp", "success")
	return &VerifyResult{Identity: identity, Matched: true}, nil
}

// ResendOTP reissues the challenge for the remembered phone once the countdown elapsed.
func (s *Session) ResendOTP(ctx context.Context) error {
	flow, ok := s.flow(ctx)
	if !ok || flow.Step != domain.StepAwaitingCode || flow.Phone == "" {
		return apperrors.NewNotFound("otp flow", nil)
	}
	if left := flow.ResendIn(s.svc.clock.Now()); left > 0 {
		err := apperrors.NewDomainError(apperrors.CodeValidation, "please wait before requesting a new OTP",
			http.StatusBadRequest, map[string]any{"resendIn": left})
		err.Reason = apperrors.ReasonResendCooldown
		return err
	}
	return s.SendOTP(ctx, flow.Phone)
}

// BackToPhone returns the flow to phone entry. The challenge stays until the next send.
func (s *Session) BackToPhone(ctx context.Context) {
	if err := s.scoped.Delete(ctx, keyOTPFlow); err != nil {
		s.svc.logger.Warn("clear otp flow", zap.Error(err))
	}
}

// OTPStatus returns the current step and resend countdown.
func (s *Session) OTPStatus(ctx context.Context) OTPStatus {
	if s.IsAuthenticated() {
		return OTPStatus{Step: domain.StepAuthenticated}
	}
	flow, ok := s.flow(ctx)
	if !ok {
		return OTPStatus{Step: domain.StepAwaitingPhone}
	}
	return OTPStatus{
		Step:     domain.StepAwaitingCode,
		Phone:    flow.Phone,
		ResendIn: flow.ResendIn(s.svc.clock.Now()),
	}
}

func (s *Session) flow(ctx context.Context) (domain.OTPFlow, bool) {
	var flow domain.OTPFlow
	ok := s.read(ctx, s.scoped, keyOTPFlow, &flow)
	return flow, ok
}

func (s *Session) discardChallenge(ctx context.Context) {
	if err := s.scoped.Delete(ctx, keyChallenge); err != nil {
		s.svc.logger.Warn("clear otp challenge", zap.Error(err))
	}
}
