package export

import (
	"fmt"
	"sort"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/whenworksapp/whenworks-server/internal/availability"
	"github.com/whenworksapp/whenworks-server/internal/dateutil"
	"github.com/whenworksapp/whenworks-server/internal/domain"
)

// RoomICS renders the room's common dates as all-day calendar events, one
// VEVENT per date everyone can attend. Calendars import the result directly.
func RoomICS(room *domain.Room) (string, error) {
	result := availability.Compute(room.Range, room.People)

	dates := make([]string, 0, len(result.CommonDates))
	for d := range result.CommonDates {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//WhenWorks//whenworks-server//EN")

	now := time.Now()
	for _, key := range dates {
		day, ok := dateutil.ParseDate(key)
		if !ok {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%s@whenworks", room.ID, key))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("Everyone available (%d/%d)", len(room.People), len(room.People)))
		event.SetDescription(fmt.Sprintf("All %d participants are free on %s.", len(room.People), key))
	}

	return cal.Serialize(), nil
}

// ICSFilename returns the suggested download filename for a room export.
func ICSFilename(room *domain.Room) string {
	return fmt.Sprintf("whenworks-%s.ics", room.ID)
}

// CSVFilename returns the suggested download filename for a room export.
func CSVFilename(room *domain.Room) string {
	return fmt.Sprintf("whenworks-%s.csv", room.ID)
}
