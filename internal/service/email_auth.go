package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/decor-manager/internal/domain"
	"github.com/spec-kit/decor-manager/internal/repository"
	apperrors "github.com/spec-kit/decor-manager/pkg/util"
)

// RegisterInput is the account creation form.
type RegisterInput struct {
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	Role            domain.Role `json:"role"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"confirmPassword"`
}

// LoginWithEmail authenticates by email and password and persists the session.
func (s *Session) LoginWithEmail(ctx context.Context, email, password string, remember bool) (*domain.Identity, error) {
	if !s.Providers(ctx).Email {
		return nil, apperrors.NewValidationReason(apperrors.ReasonProviderDisabled, "email login is disabled")
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationReason(apperrors.ReasonMissingFields, "please fill in all fields")
	}
	if err := pause(ctx, s.svc.latency); err != nil {
		return nil, err
	}

	identity, err := s.svc.authenticate(ctx, email, password)
	if err != nil {
		s.svc.metrics.RecordLogin("email", "failure")
		return nil, err
	}

	s.establish(ctx, *identity, remember)
	s.svc.metrics.RecordLogin("email", "success")
	s.svc.host.Toast(fmt.Sprintf("Welcome back, %s!", identity.Name), "success")
	return identity, nil
}

// authenticate tries the demo directory first and falls back to the provider.
func (s *SessionService) authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	if identity, ok := s.demoLogin(ctx, email, password); ok {
		return identity, nil
	}
	if s.provider == nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	userID, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.logger.Info("provider sign-in rejected", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInvalidCredentials()
	}
	identity := &domain.Identity{ID: userID, Email: email, IsActive: true}
	profile, err := s.provider.FetchProfile(ctx, userID)
	switch {
	case err == nil:
		identity = profile
	case errors.Is(err, repository.ErrNotFound):
	default:
		s.logger.Warn("provider profile fetch failed", zap.String("identity_id", userID), zap.Error(err))
		return nil, apperrors.NewInvalidCredentials()
	}
	if !identity.IsActive {
		return nil, apperrors.NewInvalidCredentials()
	}
	if identity.Name == "" {
		identity.Name = "User"
	}
	if identity.Role == "" {
		identity.Role = domain.RoleStaff
	}
	if identity.Email == "" {
		identity.Email = email
	}
	return identity, nil
}

func (s *SessionService) demoLogin(ctx context.Context, email, password string) (*domain.Identity, bool) {
	if s.demo == nil || s.demoPassword == "" || password != s.demoPassword {
		return nil, false
	}
	identity, err := s.demo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("directory lookup failed", zap.Error(err))
		}
		return nil, false
	}
	if !identity.IsActive {
		return nil, false
	}
	return identity, true
}

// Register creates an account. Provider accounts start inactive pending approval.
func (s *Session) Register(ctx context.Context, in RegisterInput) (*domain.Identity, error) {
	identity, err := s.svc.register(ctx, in)
	if err != nil {
		s.svc.metrics.RecordRegistration(outcomeOf(err))
		return nil, err
	}
	s.svc.metrics.RecordRegistration("created")
	s.svc.host.Toast("Account created successfully! Please sign in.", "success")
	s.svc.host.ShowTab("email")
	return identity, nil
}

func (s *SessionService) register(ctx context.Context, in RegisterInput) (*domain.Identity, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	switch {
	case in.Name == "" || in.Email == "" || in.Phone == "" || in.Role == "":
		return nil, apperrors.NewValidationReason(apperrors.ReasonMissingFields, "please fill in all required fields")
	case !domain.ValidEmail(in.Email):
		return nil, apperrors.NewValidationReason(apperrors.ReasonInvalidEmail, "please enter a valid email address")
	case !domain.ValidPhone(in.Phone):
		return nil, apperrors.NewValidationReason(apperrors.ReasonInvalidPhone, "please enter a valid phone number")
	case !in.Role.Valid():
		return nil, apperrors.NewValidationReason(apperrors.ReasonInvalidRole, "please select a valid role")
	case len(in.Password) < s.minPassword:
		return nil, apperrors.NewValidationReason(apperrors.ReasonPasswordTooShort,
			fmt.Sprintf("password must be at least %d characters long", s.minPassword))
	case in.Password != in.ConfirmPassword:
		return nil, apperrors.NewValidationReason(apperrors.ReasonPasswordMismatch, "passwords do not match")
	}

	if err := s.ensureUnique(ctx, in.Email, in.Phone); err != nil {
		return nil, err
	}
	if err := pause(ctx, s.latency); err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Role:      in.Role,
		CreatedAt: s.clock.Now().UTC(),
	}

	if s.provider == nil {
		identity.ID = uuid.NewString()
		identity.IsActive = true
		if err := s.directory.Append(ctx, identity); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return identity, nil
	}

	userID, err := s.provider.SignUp(ctx, in.Email, in.Password, map[string]string{
		"name":  in.Name,
		"phone": in.Phone,
		"role":  string(in.Role),
	})
	if err != nil {
		s.logger.Warn("provider sign-up failed", zap.Error(err))
		return nil, apperrors.NewProviderFailure(err)
	}
	identity.ID = userID
	identity.IsActive = false
	if err := s.provider.InsertProfile(ctx, identity); err != nil {
		s.logger.Warn("provider profile insert failed", zap.String("identity_id", userID), zap.Error(err))
		return nil, apperrors.NewProviderFailure(err)
	}
	return identity, nil
}

func (s *SessionService) ensureUnique(ctx context.Context, email, phone string) error {
	if _, err := s.directory.FindByEmail(ctx, email); err == nil {
		return apperrors.NewConflict("email or phone already in use", map[string]any{"field": "email"})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewInternalError(err)
	}
	if _, err := s.directory.FindByPhone(ctx, phone); err == nil {
		return apperrors.NewConflict("email or phone already in use", map[string]any{"field": "phone"})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func outcomeOf(err error) string {
	if de := apperrors.ToDomainError(err); de != nil {
		if de.Reason != "" {
			return de.Reason
		}
		return strings.ToLower(de.Code)
	}
	return "error"
}
