package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/decor-manager/internal/auth"
	"github.com/spec-kit/decor-manager/internal/domain"
	"github.com/spec-kit/decor-manager/internal/repository"
)

// Errors reported to the session controller.
var (
	ErrInvalidLogin = errors.New("invalid login credentials")
	ErrEmailTaken   = errors.New("email already registered")
)

// ProfileStore is the part of the profile repository the provider needs.
type ProfileStore interface {
	Insert(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
}

// CredentialProvider keeps email/password credentials and profiles in Postgres.
type CredentialProvider struct {
	credentials repository.CredentialRepository
	profiles    ProfileStore
	bcryptCost  int
	logger      *zap.Logger
}

// NewCredentialProvider builds the provider.
func NewCredentialProvider(credentials repository.CredentialRepository, profiles ProfileStore, bcryptCost int, logger *zap.Logger) *CredentialProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialProvider{credentials: credentials, profiles: profiles, bcryptCost: bcryptCost, logger: logger}
}

// SignIn returns the user id owning email when password matches.
func (p *CredentialProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	cred, err := p.credentials.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidLogin
		}
		return "", fmt.Errorf("load credential: %w", err)
	}
	if err := auth.ComparePassword(cred.PasswordHash, password); err != nil {
		return "", ErrInvalidLogin
	}
	return cred.UserID, nil
}

// SignUp stores a new credential and returns its user id.
func (p *CredentialProvider) SignUp(ctx context.Context, email, password string, metadata map[string]string) (string, error) {
	email = strings.TrimSpace(email)
	if _, err := p.credentials.GetByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("check credential: %w", err)
	}

	hash, err := auth.HashPassword(password, p.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	cred := &repository.Credential{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Metadata:     metadata,
	}
	if err := p.credentials.Create(ctx, cred); err != nil {
		return "", fmt.Errorf("create credential: %w", err)
	}
	return cred.UserID, nil
}

// SignOut has no server-side state to revoke; access tokens expire on their own.
func (p *CredentialProvider) SignOut(_ context.Context, identityID string) error {
	p.logger.Debug("provider sign-out", zap.String("identity_id", identityID))
	return nil
}

// FetchProfile loads the profile row of id.
func (p *CredentialProvider) FetchProfile(ctx context.Context, id string) (*domain.Identity, error) {
	return p.profiles.GetByID(ctx, id)
}

// InsertProfile stores identity as a profile row.
func (p *CredentialProvider) InsertProfile(ctx context.Context, identity *domain.Identity) error {
	return p.profiles.Insert(ctx, identity)
}
