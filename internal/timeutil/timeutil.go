package timeutil

import (
	"fmt"
	"time"

	"github.com/agendlyapp/booking-platform/internal/httperr"
)

const MinutesPerDay = 24 * 60

// TimeToMinutes parses a 24h "HH:MM" string into minutes since midnight.
// Anything that is not exactly two zero-padded fields in range is rejected;
// working-hours rows with broken times must fail loudly, not default.
func TimeToMinutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil || len(hhmm) != 5 {
		return 0, httperr.ErrBusiness(httperr.CodeInvalidTimeFormat)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesToTime formats minutes since midnight as zero-padded "HH:MM".
// The input must already be inside a single day; callers own that contract.
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CivilDayBounds returns the instants of 00:00:00 and 23:59:59 of the given
// calendar date in loc, expressed in UTC for storage queries. Appointments are
// stored as absolute instants, but "the day" is always the business's civil
// day; parsing the date as UTC would shift it by the zone offset.
func CivilDayBounds(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}

	start := day
	end := day.Add(24*time.Hour - time.Second)

	return start.UTC(), end.UTC(), nil
}

// MinutesIntoDay converts an instant to its wall-clock minute offset in loc.
func MinutesIntoDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// InstantAtMinutes pins a minute-of-day offset onto a civil date in loc.
func InstantAtMinutes(date string, minutes int, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}
