package domain

import (
	"errors"
	"testing"
)

func TestParseItineraryFullDocument(t *testing.T) {
	raw := []byte(`{
		"bestTimeToVisit": "November to February",
		"itinerary": [
			{"day": "Day 1", "timeline": [{"time": "Morning", "activity": "Baga Beach", "description": "Sunrise walk"}],
			 "food_suggestion": {"name": "Fish curry", "description": "Local staple"}},
			{"day": "Day 2", "timeline": []}
		]
	}`)
	itin := ParseItinerary(raw)

	if itin.BestTimeToVisit != "November to February" {
		t.Fatalf("unexpected best time %q", itin.BestTimeToVisit)
	}
	if len(itin.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(itin.Days))
	}
	if itin.Days[0].Timeline[0].Activity != "Baga Beach" {
		t.Fatalf("unexpected activity %+v", itin.Days[0].Timeline[0])
	}
	if itin.Days[0].FoodSuggestion == nil || itin.Days[0].FoodSuggestion.Name != "Fish curry" {
		t.Fatalf("expected food suggestion on day 1")
	}
	if itin.Days[1].FoodSuggestion != nil {
		t.Fatalf("expected no food suggestion on day 2")
	}
}

func TestNormalizeItineraryToleratesWrongTypes(t *testing.T) {
	doc := map[string]any{
		"bestTimeToVisit": 12,
		"itinerary": []any{
			map[string]any{"day": 3, "timeline": "not a list", "food_suggestion": "nope"},
			"garbage",
			map[string]any{"timeline": []any{map[string]any{"time": true, "activity": "Fort"}, 7}},
		},
	}
	itin := NormalizeItinerary(doc)

	if itin.BestTimeToVisit != "" {
		t.Fatalf("expected empty best time, got %q", itin.BestTimeToVisit)
	}
	if len(itin.Days) != 2 {
		t.Fatalf("expected 2 usable days, got %d", len(itin.Days))
	}
	if itin.Days[0].Day != "Day 1" || len(itin.Days[0].Timeline) != 0 || itin.Days[0].FoodSuggestion != nil {
		t.Fatalf("unexpected first day %+v", itin.Days[0])
	}
	if len(itin.Days[1].Timeline) != 1 || itin.Days[1].Timeline[0].Time != "" || itin.Days[1].Timeline[0].Activity != "Fort" {
		t.Fatalf("unexpected second day %+v", itin.Days[1])
	}
}

func TestNormalizeItineraryNeverFails(t *testing.T) {
	for _, doc := range []any{nil, "text", 3.5, []any{}, map[string]any{}} {
		itin := NormalizeItinerary(doc)
		if itin.Days == nil {
			t.Fatalf("expected non-nil days for %#v", doc)
		}
	}
	if got := ParseItinerary([]byte(`{"itinerary": [`)); len(got.Days) != 0 {
		t.Fatalf("expected empty itinerary for invalid JSON")
	}
}

func TestSavedTripItineraryFallsBackToDestination(t *testing.T) {
	trip := SavedTrip{Destination: "Goa", ItineraryData: Document(`{"itinerary":[{"day":"Day 1"}]}`)}
	itin := trip.Itinerary()
	if itin.Destination != "Goa" || trip.DayCount() != 1 {
		t.Fatalf("unexpected itinerary %+v", itin)
	}
}

func TestDocumentEmptiness(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", " null "} {
		if !Document(raw).IsEmpty() {
			t.Fatalf("expected %q to be empty", raw)
		}
	}
	if Document(`{}`).IsEmpty() {
		t.Fatalf("expected {} to be non-empty")
	}
	var d Document
	if err := d.Scan("{\"a\":1}"); err != nil || string(d) != `{"a":1}` {
		t.Fatalf("scan string failed: %v %s", err, d)
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	sentinel := NewError(KindConflict, "taken", nil)
	err := sentinel.Wrap(errors.New("23505"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected kind match")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel match")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected kind match")
	}
	if kind, ok := KindOf(err); !ok || kind != KindConflict {
		t.Fatalf("unexpected kind %q", kind)
	}
	if MessageOf(errors.New("x"), "fallback") != "fallback" {
		t.Fatalf("expected fallback message")
	}
}
