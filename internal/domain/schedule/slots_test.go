package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 09:00–18:00 with lunch 12:00–13:00.
func workDayWithLunch() WorkDay {
	return WorkDay{
		WorkStart: 540,
		WorkEnd:   1080,
		Lunch:     &Interval{Start: 720, End: 780},
	}
}

func slotAt(t *testing.T, slots []Slot, startMinutes int) Slot {
	t.Helper()
	for _, s := range slots {
		if s.StartMinutes == startMinutes {
			return s
		}
	}
	t.Fatalf("no candidate at %d minutes", startMinutes)
	return Slot{}
}

func TestGenerateSlots_FullCoverage(t *testing.T) {
	day := workDayWithLunch()

	slots := GenerateSlots(day, nil, 30, 15)

	// Candidates run 09:00, 09:15, ... 17:45 regardless of availability.
	require.Len(t, slots, 36)
	assert.Equal(t, 540, slots[0].StartMinutes)
	assert.Equal(t, 1065, slots[len(slots)-1].StartMinutes)

	for i := 1; i < len(slots); i++ {
		assert.Equal(t, 15, slots[i].StartMinutes-slots[i-1].StartMinutes)
	}
}

func TestGenerateSlots_EndOfDayBoundary(t *testing.T) {
	day := workDayWithLunch()

	slots := GenerateSlots(day, nil, 30, 15)

	// 17:45 + 30min runs past 18:00; 17:30 + 30min ends exactly at close.
	assert.False(t, slotAt(t, slots, 1065).Available)
	assert.True(t, slotAt(t, slots, 1050).Available)
}

func TestGenerateSlots_LunchBoundary(t *testing.T) {
	day := workDayWithLunch()

	short := GenerateSlots(day, nil, 15, 15)
	long := GenerateSlots(day, nil, 30, 15)

	// 15-minute service at 11:45 ends exactly at lunch start: bookable.
	assert.True(t, slotAt(t, short, 705).Available)
	// 30-minute service at 11:45 runs into lunch.
	assert.False(t, slotAt(t, long, 705).Available)
	// Candidates inside lunch are unavailable, the one at lunch end is free.
	assert.False(t, slotAt(t, long, 720).Available)
	assert.False(t, slotAt(t, long, 765).Available)
	assert.True(t, slotAt(t, long, 780).Available)
}

func TestGenerateSlots_BusyIntervals(t *testing.T) {
	day := workDayWithLunch()
	busy := []Interval{{Start: 600, End: 630}} // 10:00–10:30

	slots := GenerateSlots(day, busy, 30, 15)

	assert.False(t, slotAt(t, slots, 585).Available, "09:45 would run into the booking")
	assert.False(t, slotAt(t, slots, 600).Available)
	assert.False(t, slotAt(t, slots, 615).Available)
	assert.True(t, slotAt(t, slots, 630).Available, "starting exactly at the booking's end is fine")
	assert.True(t, slotAt(t, slots, 570).Available, "ending exactly at the booking's start is fine")
}

func TestGenerateSlots_FullyBookedDayStillListsCandidates(t *testing.T) {
	day := WorkDay{WorkStart: 540, WorkEnd: 660}
	busy := []Interval{{Start: 540, End: 660}}

	slots := GenerateSlots(day, busy, 30, 15)

	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.False(t, s.Available)
	}
}

func TestGenerateSlots_NoLunch(t *testing.T) {
	day := WorkDay{WorkStart: 480, WorkEnd: 720}

	slots := GenerateSlots(day, nil, 60, 15)

	assert.True(t, slotAt(t, slots, 480).Available)
	assert.True(t, slotAt(t, slots, 660).Available, "11:00 + 60min ends exactly at noon close")
	assert.False(t, slotAt(t, slots, 675).Available)
}

func TestGenerateSlots_DefaultGranularity(t *testing.T) {
	day := WorkDay{WorkStart: 540, WorkEnd: 600}

	slots := GenerateSlots(day, nil, 15, 0)

	require.Len(t, slots, 4)
	assert.Equal(t, 555, slots[1].StartMinutes)
}
