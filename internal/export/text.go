// Package export renders itineraries for sharing outside the app.
package export

import (
	"fmt"
	"strings"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
)

// PlainText is the copy-to-clipboard format:
//
//	Day 1:
//	  - Morning: Activity - Description
//	  - Food: Name - Description
//
// with days separated by a blank line.
func PlainText(itin domain.Itinerary) string {
	days := make([]string, 0, len(itin.Days))
	for _, day := range itin.Days {
		days = append(days, DayText(day))
	}
	return strings.Join(days, "\n\n")
}

func DayText(day domain.DayPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", day.Day)
	for _, item := range day.Timeline {
		fmt.Fprintf(&b, "  - %s: %s - %s\n", item.Time, item.Activity, item.Description)
	}
	if day.FoodSuggestion != nil {
		fmt.Fprintf(&b, "  - Food: %s - %s\n", day.FoodSuggestion.Name, day.FoodSuggestion.Description)
	}
	return b.String()
}
