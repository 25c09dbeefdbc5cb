package schedule

// Interval is a half-open [Start, End) range of minute offsets within a civil
// day. Half-open everywhere, so back-to-back bookings never falsely conflict.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals share any minute. A service
// ending exactly when another starts does not overlap it.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// HasConflict is the single overlap predicate shared by slot rendering and the
// booking commit path. Both call sites must agree, or a slot shown as free
// could fail to commit for a reason other than a lost race.
func HasConflict(proposed Interval, existing []Interval) bool {
	for _, e := range existing {
		if proposed.Overlaps(e) {
			return true
		}
	}
	return false
}
