package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	// Upsert writes the non-nil fields of update and stamps updated_at.
	Upsert(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error)
	// EnsureExists creates an empty profile for a new user and leaves an
	// existing one untouched.
	EnsureExists(ctx context.Context, id uuid.UUID, fullName, avatarURL *string) error
}
