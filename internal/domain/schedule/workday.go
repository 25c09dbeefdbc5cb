package schedule

import (
	"github.com/agendlyapp/booking-platform/internal/httperr"
	"github.com/agendlyapp/booking-platform/internal/models"
	"github.com/agendlyapp/booking-platform/internal/timeutil"
)

// WorkDay is a professional's working window for one civil day, in minute
// offsets. Lunch is nil when the day has no break.
type WorkDay struct {
	WorkStart int
	WorkEnd   int
	Lunch     *Interval
}

// ParseWorkDay converts a stored working-hours row into minute offsets.
// A row with unparseable times is configuration corruption: the whole
// availability computation aborts instead of guessing a window.
func ParseWorkDay(wh *models.WorkingHours) (WorkDay, error) {
	start, err := timeutil.TimeToMinutes(wh.StartTime)
	if err != nil {
		return WorkDay{}, err
	}

	end, err := timeutil.TimeToMinutes(wh.EndTime)
	if err != nil {
		return WorkDay{}, err
	}

	if start >= end {
		return WorkDay{}, httperr.ErrBusiness(httperr.CodeInvalidWorkingHours)
	}

	day := WorkDay{WorkStart: start, WorkEnd: end}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		ls, err := timeutil.TimeToMinutes(wh.LunchStart)
		if err != nil {
			return WorkDay{}, err
		}
		le, err := timeutil.TimeToMinutes(wh.LunchEnd)
		if err != nil {
			return WorkDay{}, err
		}

		if ls >= le || ls < start || le > end {
			return WorkDay{}, httperr.ErrBusiness(httperr.CodeInvalidWorkingHours)
		}

		day.Lunch = &Interval{Start: ls, End: le}
	}

	return day, nil
}

// Contains reports whether the proposed interval fits inside the working
// window without touching lunch. Used by the private create path, which takes
// an arbitrary start rather than a generated slot.
func (d WorkDay) Contains(proposed Interval) bool {
	if proposed.Start < d.WorkStart || proposed.End > d.WorkEnd {
		return false
	}
	if d.Lunch != nil && proposed.Overlaps(*d.Lunch) {
		return false
	}
	return true
}
