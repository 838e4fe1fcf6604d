package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spec-kit/decor-manager/internal/domain"
)

// ErrNotFound is returned when no identity matches a lookup.
var ErrNotFound = errors.New("identity not found")

// Directory lists and appends the identities allowed to sign in.
type Directory interface {
	List(ctx context.Context) ([]domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Identity, error)
	Append(ctx context.Context, identity *domain.Identity) error
}

type memoryDirectory struct {
	mu         sync.RWMutex
	identities []domain.Identity
}

// NewMemoryDirectory returns an in-process directory holding a copy of seed.
func NewMemoryDirectory(seed []domain.Identity) Directory {
	return &memoryDirectory{identities: append([]domain.Identity(nil), seed...)}
}

// DemoIdentities returns the accounts available in demo mode.
func DemoIdentities() []domain.Identity {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Identity{
		{ID: "1", Name: "Admin User", Email: "admin@weddingdecor.com", Phone: "+91 98765 43210", Role: domain.RoleAdmin, IsActive: true, CreatedAt: created},
		{ID: "2", Name: "Rajesh Kumar", Email: "rajesh@weddingdecor.com", Phone: "+91 87654 32109", Role: domain.RoleManager, IsActive: true, CreatedAt: created},
		{ID: "3", Name: "Priya Sharma", Email: "priya@weddingdecor.com", Phone: "+91 76543 21098", Role: domain.RoleSeniorStaff, IsActive: true, CreatedAt: created},
	}
}

func (d *memoryDirectory) List(_ context.Context) ([]domain.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]domain.Identity(nil), d.identities...), nil
}

func (d *memoryDirectory) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	return d.find(func(i domain.Identity) bool { return i.ID == id })
}

func (d *memoryDirectory) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	return d.find(func(i domain.Identity) bool { return i.MatchesEmail(email) })
}

func (d *memoryDirectory) FindByPhone(_ context.Context, phone string) (*domain.Identity, error) {
	return d.find(func(i domain.Identity) bool { return i.MatchesPhone(phone) })
}

func (d *memoryDirectory) Append(_ context.Context, identity *domain.Identity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.identities = append(d.identities, *identity)
	return nil
}

func (d *memoryDirectory) find(match func(domain.Identity) bool) (*domain.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, identity := range d.identities {
		if match(identity) {
			found := identity
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

type chainDirectory struct {
	primary   Directory
	fallbacks []Directory
}

// NewChainDirectory looks identities up in primary, then in each fallback.
// Appends always go to primary.
func NewChainDirectory(primary Directory, fallbacks ...Directory) Directory {
	return &chainDirectory{primary: primary, fallbacks: fallbacks}
}

func (d *chainDirectory) all() []Directory {
	return append([]Directory{d.primary}, d.fallbacks...)
}

func (d *chainDirectory) List(ctx context.Context) ([]domain.Identity, error) {
	var out []domain.Identity
	for _, dir := range d.all() {
		identities, err := dir.List(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, identities...)
	}
	return out, nil
}

func (d *chainDirectory) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	return d.first(func(dir Directory) (*domain.Identity, error) { return dir.FindByID(ctx, id) })
}

func (d *chainDirectory) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return d.first(func(dir Directory) (*domain.Identity, error) { return dir.FindByEmail(ctx, email) })
}

func (d *chainDirectory) FindByPhone(ctx context.Context, phone string) (*domain.Identity, error) {
	return d.first(func(dir Directory) (*domain.Identity, error) { return dir.FindByPhone(ctx, phone) })
}

func (d *chainDirectory) Append(ctx context.Context, identity *domain.Identity) error {
	return d.primary.Append(ctx, identity)
}

func (d *chainDirectory) first(lookup func(Directory) (*domain.Identity, error)) (*domain.Identity, error) {
	for _, dir := range d.all() {
		identity, err := lookup(dir)
		if err == nil {
			return identity, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}
