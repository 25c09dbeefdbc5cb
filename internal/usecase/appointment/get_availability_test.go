package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/agendlyapp/booking-platform/internal/domain/appointment"
	"github.com/agendlyapp/booking-platform/internal/httperr"
	"github.com/agendlyapp/booking-platform/internal/models"
)

const (
	testTenantID = uint(1)
	testProID    = uint(7)

	// 2026-03-09 is a Monday.
	testDate    = "2026-03-09"
	testWeekday = 1
)

func testTenant() *models.Tenant {
	return &models.Tenant{ID: testTenantID, Slug: "studio-centro", Timezone: "America/Sao_Paulo"}
}

func testWorkingHours() *models.WorkingHours {
	return &models.WorkingHours{
		ProfessionalID: testProID,
		Weekday:        testWeekday,
		StartTime:      "09:00",
		EndTime:        "18:00",
		LunchStart:     "12:00",
		LunchEnd:       "13:00",
		Active:         true,
	}
}

func testServices() []models.Service {
	return []models.Service{
		{ID: 1, TenantID: testTenantID, Name: "Corte", DurationMin: 30, Price: 50},
		{ID: 2, TenantID: testTenantID, Name: "Barba", DurationMin: 15, Price: 25},
	}
}

// localInstant pins an HH:MM of the test date in São Paulo time.
func localInstant(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return time.Date(2026, 3, 9, hour, minute, 0, 0, loc)
}

func slotByTime(t *testing.T, slots []domain.TimeSlot, hhmm string) domain.TimeSlot {
	t.Helper()
	for _, s := range slots {
		if s.Time == hhmm {
			return s
		}
	}
	t.Fatalf("no slot at %s", hhmm)
	return domain.TimeSlot{}
}

func TestGetAvailability_FullGrid(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetTenantByID", mock.Anything, testTenantID).Return(testTenant(), nil)
	repo.On("GetProfessional", mock.Anything, testTenantID, testProID).
		Return(&models.Professional{ID: testProID, TenantID: testTenantID}, nil)
	repo.On("GetServices", mock.Anything, testTenantID, []uint{1}).
		Return(testServices()[:1], nil)
	repo.On("GetWorkingHours", mock.Anything, testProID, testWeekday).
		Return(testWorkingHours(), nil)

	existing := models.Appointment{
		ProfessionalID: testProID,
		StartTime:      localInstant(t, 10, 0),
		Services:       []models.Service{{DurationMin: 30}},
	}
	repo.On("ListScheduledForDay", mock.Anything, testProID, mock.Anything, mock.Anything).
		Return([]models.Appointment{existing}, nil)

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		ServiceIDs:     []uint{1},
		Date:           testDate,
	})
	require.NoError(t, err)

	// 09:00 through 17:45 at 15-minute steps, every candidate present.
	require.Len(t, slots, 36)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "17:45", slots[len(slots)-1].Time)

	assert.True(t, slotByTime(t, slots, "09:00").Available)
	assert.False(t, slotByTime(t, slots, "09:45").Available, "would run into the 10:00 booking")
	assert.False(t, slotByTime(t, slots, "10:15").Available)
	assert.True(t, slotByTime(t, slots, "10:30").Available, "starts exactly when the booking ends")
	assert.False(t, slotByTime(t, slots, "11:45").Available, "30 min runs into lunch")
	assert.False(t, slotByTime(t, slots, "17:45").Available, "runs past closing")
	assert.True(t, slotByTime(t, slots, "17:30").Available, "ends exactly at closing")
}

func TestGetAvailability_InactiveWeekdayReturnsEmpty(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetTenantByID", mock.Anything, testTenantID).Return(testTenant(), nil)
	repo.On("GetProfessional", mock.Anything, testTenantID, testProID).
		Return(&models.Professional{ID: testProID}, nil)
	repo.On("GetServices", mock.Anything, testTenantID, []uint{1}).
		Return(testServices()[:1], nil)

	wh := testWorkingHours()
	wh.Active = false
	repo.On("GetWorkingHours", mock.Anything, testProID, testWeekday).Return(wh, nil)

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		ServiceIDs:     []uint{1},
		Date:           testDate,
	})

	require.NoError(t, err)
	assert.Empty(t, slots, "no working hours is the empty sequence, not an all-unavailable grid")
}

func TestGetAvailability_CorruptWorkingHoursAbort(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetTenantByID", mock.Anything, testTenantID).Return(testTenant(), nil)
	repo.On("GetProfessional", mock.Anything, testTenantID, testProID).
		Return(&models.Professional{ID: testProID}, nil)
	repo.On("GetServices", mock.Anything, testTenantID, []uint{1}).
		Return(testServices()[:1], nil)

	wh := testWorkingHours()
	wh.EndTime = "6pm"
	repo.On("GetWorkingHours", mock.Anything, testProID, testWeekday).Return(wh, nil)

	uc := NewGetAvailability(repo)
	_, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		ServiceIDs:     []uint{1},
		Date:           testDate,
	})

	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTimeFormat))
}

func TestGetAvailability_EmptyServiceSelection(t *testing.T) {
	uc := NewGetAvailability(new(MockRepository))

	_, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		Date:           testDate,
	})

	assert.True(t, httperr.IsBusiness(err, httperr.CodeEmptyServiceSelection))
}

func TestGetAvailability_UnknownService(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetTenantByID", mock.Anything, testTenantID).Return(testTenant(), nil)
	repo.On("GetProfessional", mock.Anything, testTenantID, testProID).
		Return(&models.Professional{ID: testProID}, nil)
	repo.On("GetServices", mock.Anything, testTenantID, []uint{1, 99}).
		Return(testServices()[:1], nil)

	uc := NewGetAvailability(repo)
	_, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		ServiceIDs:     []uint{1, 99},
		Date:           testDate,
	})

	assert.True(t, httperr.IsBusiness(err, httperr.CodeServiceNotFound))
}
