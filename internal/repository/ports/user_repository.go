package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
)

type UserRepository interface {
	UpsertByProvider(ctx context.Context, provider, subject, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
