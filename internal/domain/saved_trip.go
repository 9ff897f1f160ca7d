package domain

import (
	"time"

	"github.com/google/uuid"
)

type SavedTrip struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	Destination   string    `db:"destination" json:"destination"`
	ItineraryData Document  `db:"itinerary_data" json:"itinerary_data"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Itinerary returns the stored document in render-ready form.
func (t SavedTrip) Itinerary() Itinerary {
	itin := NormalizeItinerary(t.ItineraryData.Decode())
	if itin.Destination == "" {
		itin.Destination = t.Destination
	}
	return itin
}

func (t SavedTrip) DayCount() int {
	return len(t.Itinerary().Days)
}
