package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/repository/ports"
)

type UserRepository struct {
	db *sqlx.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) UpsertByProvider(ctx context.Context, provider, subject, email string) (*domain.User, error) {
	const query = `
		INSERT INTO users (email, provider, provider_subject)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider, provider_subject) DO UPDATE
		SET email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
		    updated_at = NOW()
		RETURNING id, email, provider, provider_subject, created_at, updated_at
	`
	row := r.db.QueryRowxContext(ctx, query, email, provider, subject)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
		SELECT id, email, provider, provider_subject, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}
