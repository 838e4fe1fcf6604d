package provider

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/decor-manager/internal/domain"
	"github.com/spec-kit/decor-manager/internal/repository"
)

type memoryCredentials struct {
	mu    sync.Mutex
	items map[string]repository.Credential
}

func (m *memoryCredentials) Create(_ context.Context, cred *repository.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = map[string]repository.Credential{}
	}
	m.items[strings.ToLower(cred.Email)] = *cred
	return nil
}

func (m *memoryCredentials) GetByEmail(_ context.Context, email string) (*repository.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.items[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &cred, nil
}

type memoryProfiles struct {
	items map[string]domain.Identity
}

func (m *memoryProfiles) Insert(_ context.Context, identity *domain.Identity) error {
	if m.items == nil {
		m.items = map[string]domain.Identity{}
	}
	m.items[identity.ID] = *identity
	return nil
}

func (m *memoryProfiles) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	identity, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &identity, nil
}

func TestSignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	creds := &memoryCredentials{}
	p := NewCredentialProvider(creds, &memoryProfiles{}, 4, nil)

	id, err := p.SignUp(ctx, "anita@weddingdecor.com", "secret1", map[string]string{"role": "STAFF"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored, err := creds.GetByEmail(ctx, "anita@weddingdecor.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.Equal(t, "STAFF", stored.Metadata["role"])

	got, err := p.SignIn(ctx, "ANITA@weddingdecor.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = p.SignIn(ctx, "anita@weddingdecor.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidLogin)
	_, err = p.SignIn(ctx, "nobody@weddingdecor.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidLogin)

	_, err = p.SignUp(ctx, "Anita@WeddingDecor.com", "other12", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	p := NewCredentialProvider(&memoryCredentials{}, &memoryProfiles{}, 4, nil)

	require.NoError(t, p.InsertProfile(ctx, &domain.Identity{ID: "u1", Name: "Anita", Role: domain.RoleStaff}))
	profile, err := p.FetchProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Anita", profile.Name)
	assert.False(t, profile.IsActive)

	_, err = p.FetchProfile(ctx, "u2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, p.SignOut(ctx, "u1"))
}
