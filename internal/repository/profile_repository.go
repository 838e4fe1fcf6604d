package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/decor-manager/internal/domain"
)

// ProfileRepository is the Postgres-backed directory of profiles.
type ProfileRepository interface {
	Directory
	Insert(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const profileColumns = `id, name, email, phone, role, is_active, created_at`

func (r *profileRepository) Insert(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO profiles (id, name, email, phone, role, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		identity.ID,
		identity.Name,
		identity.Email,
		identity.Phone,
		identity.Role,
		identity.IsActive,
	).Scan(&identity.CreatedAt)
}

func (r *profileRepository) Append(ctx context.Context, identity *domain.Identity) error {
	return r.Insert(ctx, identity)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.queryOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id=$1`, id)
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.GetByID(ctx, id)
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.queryOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE LOWER(email)=LOWER($1)`, email)
}

func (r *profileRepository) FindByPhone(ctx context.Context, phone string) (*domain.Identity, error) {
	const query = `SELECT ` + profileColumns + ` FROM profiles
        WHERE regexp_replace(phone, '[[:space:]()-]', '', 'g') = $1
        ORDER BY created_at LIMIT 1`
	return r.queryOne(ctx, query, domain.NormalizePhone(phone))
}

func (r *profileRepository) List(ctx context.Context) ([]domain.Identity, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		identity, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		identities = append(identities, *identity)
	}
	return identities, rows.Err()
}

func (r *profileRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.Identity, error) {
	identity, err := scanProfile(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return identity, err
}

func scanProfile(row pgx.Row) (*domain.Identity, error) {
	var identity domain.Identity
	if err := row.Scan(
		&identity.ID,
		&identity.Name,
		&identity.Email,
		&identity.Phone,
		&identity.Role,
		&identity.IsActive,
		&identity.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &identity, nil
}
