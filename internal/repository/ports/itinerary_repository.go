package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
)

type ItineraryRepository interface {
	Create(ctx context.Context, userID uuid.UUID, destination string, data domain.Document) (*domain.SavedTrip, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedTrip, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.SavedTrip, error)
}
