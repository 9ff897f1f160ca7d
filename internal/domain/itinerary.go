package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Itinerary struct {
	Destination     string    `json:"destination,omitempty"`
	BestTimeToVisit string    `json:"bestTimeToVisit,omitempty"`
	Days            []DayPlan `json:"itinerary"`
}

type DayPlan struct {
	Day            string     `json:"day"`
	Timeline       []Activity `json:"timeline"`
	FoodSuggestion *FoodItem  `json:"food_suggestion,omitempty"`
}

type Activity struct {
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
}

type FoodItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NormalizeItinerary coerces an untyped document into an Itinerary. Missing
// or wrong-typed fields become empty values; it never fails.
func NormalizeItinerary(doc any) Itinerary {
	root, ok := doc.(map[string]any)
	if !ok {
		// A bare array of days is accepted as well.
		if days, isList := doc.([]any); isList {
			return Itinerary{Days: normalizeDays(days)}
		}
		return Itinerary{Days: []DayPlan{}}
	}

	itin := Itinerary{
		Destination:     stringField(root, "destination"),
		BestTimeToVisit: stringField(root, "bestTimeToVisit"),
	}
	days, _ := root["itinerary"].([]any)
	if days == nil {
		days, _ = root["days"].([]any)
	}
	itin.Days = normalizeDays(days)
	return itin
}

// ParseItinerary decodes raw JSON and normalizes it. Invalid JSON yields an
// empty itinerary.
func ParseItinerary(raw []byte) Itinerary {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return NormalizeItinerary(nil)
	}
	return NormalizeItinerary(doc)
}

func normalizeDays(items []any) []DayPlan {
	out := make([]DayPlan, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		day := DayPlan{
			Day:      stringField(entry, "day"),
			Timeline: normalizeTimeline(entry["timeline"]),
		}
		if strings.TrimSpace(day.Day) == "" {
			day.Day = fmt.Sprintf("Day %d", len(out)+1)
		}
		if food, ok := entry["food_suggestion"].(map[string]any); ok {
			day.FoodSuggestion = &FoodItem{
				Name:        stringField(food, "name"),
				Description: stringField(food, "description"),
			}
		}
		out = append(out, day)
	}
	return out
}

func normalizeTimeline(value any) []Activity {
	items, _ := value.([]any)
	out := make([]Activity, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Activity{
			Time:        stringField(entry, "time"),
			Activity:    stringField(entry, "activity"),
			Description: stringField(entry, "description"),
		})
	}
	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
