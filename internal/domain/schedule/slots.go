package schedule

// DefaultGranularityMin is the step between candidate slot start times.
const DefaultGranularityMin = 15

// Slot is one candidate start time of a day, flagged rather than filtered:
// a fully booked day still returns every candidate (all unavailable), so
// callers can tell "no capacity" from "no working hours configured".
type Slot struct {
	StartMinutes int
	Available    bool
}

// GenerateSlots walks the working window from WorkStart to WorkEnd (exclusive)
// in granularity steps and flags each candidate against three rules:
//
//  1. the whole service must fit before WorkEnd (ending exactly at WorkEnd
//     is bookable);
//  2. [c, c+duration) must not overlap lunch (half-open, so ending exactly at
//     lunch start or starting exactly at lunch end is fine);
//  3. [c, c+duration) must not overlap any existing scheduled appointment.
//
// busy intervals come pre-clamped to the same civil day. durationMin must be
// positive; the use case rejects anything else before calling here.
func GenerateSlots(day WorkDay, busy []Interval, durationMin, granularityMin int) []Slot {
	if granularityMin <= 0 {
		granularityMin = DefaultGranularityMin
	}

	var slots []Slot

	for c := day.WorkStart; c < day.WorkEnd; c += granularityMin {
		serviceEnd := c + durationMin
		candidate := Interval{Start: c, End: serviceEnd}

		available := serviceEnd <= day.WorkEnd

		if available && day.Lunch != nil && candidate.Overlaps(*day.Lunch) {
			available = false
		}

		if available && HasConflict(candidate, busy) {
			available = false
		}

		slots = append(slots, Slot{StartMinutes: c, Available: available})
	}

	return slots
}
