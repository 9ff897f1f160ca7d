package domain

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

const (
	MinTripDays     = 1
	MaxTripDays     = 10
	DefaultTripDays = 2
)

type TransportMode string

const (
	TransportAny     TransportMode = "Any"
	TransportAirways TransportMode = "Airways"
	TransportTrain   TransportMode = "Train"
	TransportBus     TransportMode = "Bus"
	TransportCar     TransportMode = "Car"
)

const PeriodAny = "Any"

var (
	TransportModes = []TransportMode{TransportAny, TransportAirways, TransportTrain, TransportBus, TransportCar}

	TravelPeriods = []string{
		PeriodAny,
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
		"Spring (Mar-May)", "Summer (Jun-Aug)", "Autumn (Sep-Nov)", "Winter (Dec-Feb)",
	}

	Vibes = []string{"Adventure", "Relaxing", "Foodie", "Culture", "Artsy", "Party"}
)

// IsGround reports whether the mode rules out air travel.
func (m TransportMode) IsGround() bool {
	return m == TransportCar || m == TransportTrain || m == TransportBus
}

var folder = cases.Fold()

func foldKey(s string) string {
	return folder.String(strings.TrimSpace(s))
}

var (
	vibeIndex      = lo.SliceToMap(Vibes, func(v string) (string, string) { return foldKey(v), v })
	periodIndex    = lo.SliceToMap(TravelPeriods, func(p string) (string, string) { return foldKey(p), p })
	transportIndex = lo.SliceToMap(TransportModes, func(m TransportMode) (string, TransportMode) { return foldKey(string(m)), m })
)

// ParseTransportMode matches case-insensitively; unknown or empty input is Any.
func ParseTransportMode(s string) TransportMode {
	if m, ok := transportIndex[foldKey(s)]; ok {
		return m
	}
	return TransportAny
}

// ParseTravelPeriod matches case-insensitively; unknown or empty input is Any.
func ParseTravelPeriod(s string) string {
	if p, ok := periodIndex[foldKey(s)]; ok {
		return p
	}
	return PeriodAny
}

// ClampDays bounds a requested trip length to [MinTripDays, MaxTripDays].
func ClampDays(n int) int {
	switch {
	case n < MinTripDays:
		return MinTripDays
	case n > MaxTripDays:
		return MaxTripDays
	default:
		return n
	}
}

// PlanRequest is the generator form as submitted.
type PlanRequest struct {
	Destination   string   `json:"destination"`
	Vibes         []string `json:"vibes"`
	NumDays       *int     `json:"numDays"`
	SourceCity    string   `json:"sourceCity,omitempty"`
	TransportMode string   `json:"transportMode,omitempty"`
	TravelPeriod  string   `json:"travelPeriod,omitempty"`
}

// Days returns the clamped trip length; an absent value means DefaultTripDays.
func (r PlanRequest) Days() int {
	if r.NumDays == nil {
		return DefaultTripDays
	}
	return ClampDays(*r.NumDays)
}

// Normalize trims text fields, canonicalizes vibes and options, and clamps
// the day count. It is idempotent.
func (r PlanRequest) Normalize() PlanRequest {
	days := r.Days()
	vibes := lo.FilterMap(r.Vibes, func(v string, _ int) (string, bool) {
		key := foldKey(v)
		if key == "" {
			return "", false
		}
		if canonical, ok := vibeIndex[key]; ok {
			return canonical, true
		}
		return strings.TrimSpace(v), true
	})
	return PlanRequest{
		Destination:   strings.TrimSpace(r.Destination),
		Vibes:         lo.Uniq(vibes),
		NumDays:       &days,
		SourceCity:    strings.TrimSpace(r.SourceCity),
		TransportMode: string(ParseTransportMode(r.TransportMode)),
		TravelPeriod:  ParseTravelPeriod(r.TravelPeriod),
	}
}

// Validate reports missing or unknown input on a normalized request.
func (r PlanRequest) Validate() error {
	if strings.TrimSpace(r.Destination) == "" {
		return NewError(KindValidation, "Please enter a destination.", nil)
	}
	if len(r.Vibes) == 0 {
		return NewError(KindValidation, "Please pick at least one vibe.", nil)
	}
	for _, v := range r.Vibes {
		if _, ok := vibeIndex[foldKey(v)]; !ok {
			return NewError(KindValidation, "Unknown vibe: "+v, nil)
		}
	}
	return nil
}
