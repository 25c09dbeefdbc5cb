package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps_Symmetry(t *testing.T) {
	cases := []struct {
		a, b Interval
	}{
		{Interval{600, 630}, Interval{630, 660}},
		{Interval{600, 630}, Interval{629, 659}},
		{Interval{0, 1440}, Interval{720, 780}},
		{Interval{100, 200}, Interval{150, 160}},
		{Interval{100, 200}, Interval{200, 300}},
		{Interval{100, 200}, Interval{50, 100}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.a.Overlaps(tc.b), tc.b.Overlaps(tc.a),
			"overlap must be symmetric for %v and %v", tc.a, tc.b)
	}
}

func TestOverlaps_AdjacencyIsNotConflict(t *testing.T) {
	existing := Interval{Start: 600, End: 630} // 10:00–10:30

	assert.False(t, Interval{630, 660}.Overlaps(existing), "10:30–11:00 starts exactly at the end")
	assert.True(t, Interval{629, 659}.Overlaps(existing), "10:29–10:59 eats one shared minute")
	assert.False(t, Interval{570, 600}.Overlaps(existing), "09:30–10:00 ends exactly at the start")
}

func TestHasConflict(t *testing.T) {
	busy := []Interval{
		{Start: 540, End: 570},
		{Start: 720, End: 780},
	}

	assert.False(t, HasConflict(Interval{570, 600}, busy))
	assert.True(t, HasConflict(Interval{560, 590}, busy))
	assert.True(t, HasConflict(Interval{700, 730}, busy))
	assert.False(t, HasConflict(Interval{600, 660}, nil))
}
