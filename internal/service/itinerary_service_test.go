package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
)

func TestItineraryServiceSaveWithoutSessionWritesNothing(t *testing.T) {
	repo := &fakeItineraryRepo{}
	svc := NewItineraryService(repo)

	_, err := svc.Save(context.Background(), nil, "Goa", domain.Document(`{"itinerary":[]}`))
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if domain.MessageOf(err, "") != "You must be logged in to save an itinerary." {
		t.Fatalf("unexpected message %q", domain.MessageOf(err, ""))
	}
	if repo.creates != 0 || len(repo.trips) != 0 {
		t.Fatalf("expected no insert, got %d", repo.creates)
	}
}

func TestItineraryServiceSaveValidation(t *testing.T) {
	repo := &fakeItineraryRepo{}
	svc := NewItineraryService(repo)
	owner := uuid.New()

	cases := []struct {
		destination string
		data        domain.Document
	}{
		{"", domain.Document(`{"itinerary":[]}`)},
		{"   ", domain.Document(`{"itinerary":[]}`)},
		{"Goa", nil},
		{"Goa", domain.Document("null")},
	}
	for _, c := range cases {
		_, err := svc.Save(context.Background(), &owner, c.destination, c.data)
		if !errors.Is(err, ErrItineraryIncomplete) {
			t.Fatalf("Save(%q, %q): expected incomplete error, got %v", c.destination, c.data, err)
		}
	}
	if repo.creates != 0 {
		t.Fatalf("expected no insert on validation failure")
	}
}

func TestItineraryServiceSaveStoresVerbatim(t *testing.T) {
	repo := &fakeItineraryRepo{}
	svc := NewItineraryService(repo)
	owner := uuid.New()
	doc := domain.Document(`{"itinerary":[{"day":"Day 1","unexpected":true}]}`)

	trip, err := svc.Save(context.Background(), &owner, " Goa ", doc)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if trip.UserID != owner || trip.Destination != "Goa" {
		t.Fatalf("unexpected trip %+v", trip)
	}
	if string(trip.ItineraryData) != string(doc) {
		t.Fatalf("expected document stored verbatim, got %s", trip.ItineraryData)
	}
}

func TestItineraryServiceSaveStoreFailure(t *testing.T) {
	svc := NewItineraryService(&fakeItineraryRepo{createErr: errors.New("connection refused")})
	owner := uuid.New()

	_, err := svc.Save(context.Background(), &owner, "Goa", domain.Document(`{}`))
	if !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if domain.MessageOf(err, "") != "Failed to save itinerary." {
		t.Fatalf("unexpected message %q", domain.MessageOf(err, ""))
	}
}

func TestItineraryServiceListNewestFirstAndScoped(t *testing.T) {
	repo := &fakeItineraryRepo{}
	svc := NewItineraryService(repo)
	owner, other := uuid.New(), uuid.New()
	ctx := context.Background()

	first, _ := svc.Save(ctx, &owner, "Goa", domain.Document(`{}`))
	second, _ := svc.Save(ctx, &owner, "Kyoto", domain.Document(`{}`))
	_, _ = svc.Save(ctx, &other, "Lima", domain.Document(`{}`))

	trips, err := svc.List(ctx, &owner)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(trips) != 2 || trips[0].ID != second.ID || trips[1].ID != first.ID {
		t.Fatalf("unexpected order %+v", trips)
	}

	if _, err := svc.List(ctx, nil); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated list, got %v", err)
	}
}

func TestItineraryServiceGet(t *testing.T) {
	repo := &fakeItineraryRepo{}
	svc := NewItineraryService(repo)
	owner := uuid.New()
	saved, _ := svc.Save(context.Background(), &owner, "Goa", domain.Document(`{}`))

	got, err := svc.Get(context.Background(), saved.ID)
	if err != nil || got.ID != saved.ID {
		t.Fatalf("expected trip, got %v %v", got, err)
	}
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrItineraryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	repo.findErr = errors.New("timeout")
	if _, err := svc.Get(context.Background(), saved.ID); !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}
