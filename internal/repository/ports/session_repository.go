package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.Session, error)
	DeactivateSession(ctx context.Context, tokenHash string) error
	FindActiveSession(ctx context.Context, tokenHash string) (*domain.Session, error)
}
