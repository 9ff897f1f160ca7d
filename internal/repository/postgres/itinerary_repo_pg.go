package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/repository/ports"
)

type ItineraryRepository struct {
	db *sqlx.DB
}

var _ ports.ItineraryRepository = (*ItineraryRepository)(nil)

func NewItineraryRepo(db *sqlx.DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

func (r *ItineraryRepository) Create(ctx context.Context, userID uuid.UUID, destination string, data domain.Document) (*domain.SavedTrip, error) {
	const query = `
		INSERT INTO itineraries (user_id, destination, itinerary_data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING id, user_id, destination, itinerary_data, created_at
	`
	row := r.db.QueryRowxContext(ctx, query, userID, destination, data)
	var trip domain.SavedTrip
	if err := row.StructScan(&trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *ItineraryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedTrip, error) {
	const query = `
		SELECT id, user_id, destination, itinerary_data, created_at
		FROM itineraries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]domain.SavedTrip, 0)
	for rows.Next() {
		var trip domain.SavedTrip
		if err := rows.StructScan(&trip); err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func (r *ItineraryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SavedTrip, error) {
	const query = `
		SELECT id, user_id, destination, itinerary_data, created_at
		FROM itineraries
		WHERE id = $1
	`
	var trip domain.SavedTrip
	if err := r.db.GetContext(ctx, &trip, query, id); err != nil {
		return nil, err
	}
	return &trip, nil
}
