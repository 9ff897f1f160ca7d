// Package prompt turns a generator form into the instruction text sent to
// the completion API.
package prompt

import (
	"fmt"
	"strings"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
)

const (
	groundOnlyClause = "IMPORTANT: The traveler is going by %s. Do NOT include any flights, airports or air travel. " +
		"All movement between places must be possible by %s."
	airwaysClause = "The traveler is flying. Plan Day 1 starting from arrival at the nearest airport to %s " +
		"and end the last day with a departure from that airport."
)

const schema = `{
  "bestTimeToVisit": "One sentence on the best season to visit.",
  "itinerary": [
    {
      "day": "Day 1",
      "timeline": [
        { "time": "Morning", "activity": "Activity Name", "description": "A 1-2 sentence description." },
        { "time": "Afternoon", "activity": "Activity Name", "description": "A 1-2 sentence description." },
        { "time": "Evening", "activity": "Activity Name", "description": "A 1-2 sentence description." }
      ],
      "food_suggestion": { "name": "Restaurant Name", "description": "A 1-2 sentence description of why it's a good choice." }
    }
  ]
}`

// Build renders the prompt for req. It normalizes req first and is pure:
// the same request always yields the same text.
func Build(req domain.PlanRequest) string {
	req = req.Normalize()
	days := req.Days()
	mode := domain.TransportMode(req.TransportMode)

	var b strings.Builder
	b.WriteString("You are Voyara, an expert travel planner creating a JSON itinerary.\n")
	b.WriteString("Do not include any introductory text, just the JSON object.\n")
	fmt.Fprintf(&b, "The destination is %s.\n", req.Destination)
	fmt.Fprintf(&b, "The desired vibe is: %s.\n", strings.Join(req.Vibes, ", "))
	if req.SourceCity != "" {
		fmt.Fprintf(&b, "The traveler starts from %s.\n", req.SourceCity)
	}
	if req.TravelPeriod != domain.PeriodAny {
		fmt.Fprintf(&b, "The trip takes place in %s; suggest activities suited to that time of year.\n", req.TravelPeriod)
	}
	if clause := transportClause(mode, req.Destination); clause != "" {
		b.WriteString(clause)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Generate a detailed day-by-day itinerary. Exactly %s, no more and no less.\n", dayLabel(days))
	fmt.Fprintf(&b, "The \"itinerary\" array must contain exactly %d entries labelled \"Day 1\" to \"Day %d\".\n", days, days)
	b.WriteString("The JSON structure must be:\n")
	b.WriteString(schema)
	b.WriteString("\n")
	return b.String()
}

func transportClause(mode domain.TransportMode, destination string) string {
	switch {
	case mode == domain.TransportAirways:
		return fmt.Sprintf(airwaysClause, destination)
	case mode.IsGround():
		name := strings.ToLower(string(mode))
		return fmt.Sprintf(groundOnlyClause, name, name)
	default:
		return ""
	}
}

func dayLabel(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
