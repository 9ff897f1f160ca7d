package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
)

const productID = "-//Voyara//Itinerary Export//EN"

// Calendar renders one all-day event per itinerary day, the first on start.
func Calendar(trip domain.SavedTrip, start time.Time) string {
	itin := trip.Itinerary()
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	stamp := trip.CreatedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(fmt.Sprintf("Voyara: %s", itin.Destination))

	for i, day := range itin.Days {
		event := cal.AddEvent(fmt.Sprintf("%s-day-%d@voyara", trip.ID, i+1))
		event.SetDtStampTime(stamp.UTC())
		event.SetCreatedTime(stamp.UTC())
		event.SetAllDayStartAt(start.AddDate(0, 0, i))
		event.SetAllDayEndAt(start.AddDate(0, 0, i+1))
		event.SetSummary(fmt.Sprintf("%s: %s", itin.Destination, day.Day))
		event.SetLocation(itin.Destination)
		event.SetDescription(strings.TrimRight(DayText(day), "\n"))
	}
	return cal.Serialize()
}
