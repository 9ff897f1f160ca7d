package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/repository/ports"
)

type ProfileRepository struct {
	db *sqlx.DB
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepo(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	const query = `
		SELECT id, username, full_name, avatar_url, updated_at
		FROM profiles
		WHERE id = $1
	`
	var profile domain.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	// $5 flags a username that should be cleared rather than kept.
	const query = `
		INSERT INTO profiles (id, username, full_name, avatar_url, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET username = CASE WHEN $5 THEN EXCLUDED.username ELSE COALESCE(EXCLUDED.username, profiles.username) END,
		    full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
		    avatar_url = COALESCE(EXCLUDED.avatar_url, profiles.avatar_url),
		    updated_at = NOW()
		RETURNING id, username, full_name, avatar_url, updated_at
	`
	var username *string
	clearUsername := false
	if update.Username != nil {
		if *update.Username == "" {
			clearUsername = true
		} else {
			username = update.Username
		}
	}

	row := r.db.QueryRowxContext(ctx, query, id, username, update.FullName, update.AvatarURL, clearUsername)
	var profile domain.Profile
	if err := row.StructScan(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) EnsureExists(ctx context.Context, id uuid.UUID, fullName, avatarURL *string) error {
	const query = `
		INSERT INTO profiles (id, full_name, avatar_url, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, id, fullName, avatarURL)
	return err
}
