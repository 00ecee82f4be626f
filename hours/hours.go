package hours

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var (
	pragueLoc  *time.Location
	displayLoc *time.Location = time.UTC
)

func init() {
	var err error
	pragueLoc, err = time.LoadLocation("Europe/Prague")
	if err != nil {
		panic(fmt.Sprintf("failed to load Prague location: %v", err))
	}
}

// Prague is the OTE market timezone. Hour indexes in published data are
// 1-based offsets from Prague midnight.
func Prague() *time.Location {
	return pragueLoc
}

func SetDisplayTimezone(timezone string) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %s: %v", timezone, err)
	}
	displayLoc = loc
	return nil
}

func DisplayLocation() *time.Location {
	return displayLoc
}

// HourStart truncates t to the top of its hour, keeping the location.
func HourStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// Midnight returns the start of the calendar day containing t, in Prague time.
func Midnight(t time.Time) time.Time {
	local := t.In(pragueLoc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, pragueLoc)
}

// NextMidnight returns the start of the day after the one containing t.
// AddDate is DST safe here, time.Date normalizes the wall clock.
func NextMidnight(t time.Time) time.Time {
	return Midnight(t).AddDate(0, 0, 1)
}

// HoursInDay returns how many hourly intervals the Prague calendar day
// containing t has: 24 normally, 23 on the spring DST transition and
// 25 in autumn.
func HoursInDay(t time.Time) int {
	start := Midnight(t)
	end := start.AddDate(0, 0, 1)
	return int(end.Sub(start) / time.Hour)
}

// DayString formats the Prague calendar date of t, e.g. "2025-01-01".
func DayString(t time.Time) string {
	return t.In(pragueLoc).Format(dateLayout)
}

// SameDay reports whether a and b fall on the same Prague calendar day.
func SameDay(a, b time.Time) bool {
	return DayString(a) == DayString(b)
}

func FormatInDisplayTimezone(t time.Time) string {
	return t.In(displayLoc).Format(time.RFC3339)
}
