package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Credential is a stored email/password pair owned by the credential provider.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash string
	Metadata     map[string]string
	CreatedAt    time.Time
}

// CredentialRepository manages credential persistence.
type CredentialRepository interface {
	Create(ctx context.Context, cred *Credential) error
	GetByEmail(ctx context.Context, email string) (*Credential, error)
}

type credentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository constructs repository.
func NewCredentialRepository(pool *pgxpool.Pool) CredentialRepository {
	return &credentialRepository{pool: pool}
}

func (r *credentialRepository) Create(ctx context.Context, cred *Credential) error {
	const query = `
        INSERT INTO credentials (user_id, email, password_hash, metadata)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		cred.UserID,
		cred.Email,
		cred.PasswordHash,
		cred.Metadata,
	).Scan(&cred.CreatedAt)
}

func (r *credentialRepository) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	const query = `
        SELECT user_id, email, password_hash, metadata, created_at
        FROM credentials WHERE LOWER(email)=LOWER($1)`
	var cred Credential
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&cred.UserID,
		&cred.Email,
		&cred.PasswordHash,
		&cred.Metadata,
		&cred.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}
