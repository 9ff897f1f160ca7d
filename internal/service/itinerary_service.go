package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/repository/ports"
)

var (
	ErrSaveUnauthenticated = domain.NewError(domain.KindUnauthenticated, "You must be logged in to save an itinerary.", nil)
	ErrListUnauthenticated = domain.NewError(domain.KindUnauthenticated, "You must be logged in to view your trips.", nil)
	ErrItineraryIncomplete = domain.NewError(domain.KindValidation, "Missing destination or itinerary data.", nil)
	ErrItineraryNotFound   = domain.NewError(domain.KindNotFound, "Itinerary not found.", nil)
)

// ItineraryService persists generated itineraries. Documents are stored
// verbatim; callers normalize when rendering.
type ItineraryService struct {
	itineraries ports.ItineraryRepository
}

func NewItineraryService(repo ports.ItineraryRepository) *ItineraryService {
	return &ItineraryService{itineraries: repo}
}

// Save stores a new trip for ownerID. A nil owner means no session and
// nothing is written.
func (s *ItineraryService) Save(ctx context.Context, ownerID *uuid.UUID, destination string, data domain.Document) (*domain.SavedTrip, error) {
	if ownerID == nil || *ownerID == uuid.Nil {
		return nil, ErrSaveUnauthenticated
	}
	destination = strings.TrimSpace(destination)
	if destination == "" || data.IsEmpty() {
		return nil, ErrItineraryIncomplete
	}

	trip, err := s.itineraries.Create(ctx, *ownerID, destination, data)
	if err != nil {
		return nil, storeError("Failed to save itinerary.", err)
	}
	return trip, nil
}

// List returns the owner's trips, newest first.
func (s *ItineraryService) List(ctx context.Context, ownerID *uuid.UUID) ([]domain.SavedTrip, error) {
	if ownerID == nil || *ownerID == uuid.Nil {
		return nil, ErrListUnauthenticated
	}
	trips, err := s.itineraries.ListByUser(ctx, *ownerID)
	if err != nil {
		return nil, storeError("Failed to load your trips.", err)
	}
	return trips, nil
}

// Get loads a trip by id without an ownership check; share links are public.
func (s *ItineraryService) Get(ctx context.Context, id uuid.UUID) (*domain.SavedTrip, error) {
	trip, err := s.itineraries.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrItineraryNotFound
		}
		return nil, storeError("Failed to load itinerary.", err)
	}
	return trip, nil
}
