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
	"github.com/agendlyapp/booking-platform/internal/lock"
	"github.com/agendlyapp/booking-platform/internal/models"
)

func bookingRepo(t *testing.T, existing []models.Appointment, services []models.Service, ids []uint) *MockRepository {
	t.Helper()

	repo := new(MockRepository)
	repo.On("GetTenantByID", mock.Anything, testTenantID).Return(testTenant(), nil)
	repo.On("GetProfessional", mock.Anything, testTenantID, testProID).
		Return(&models.Professional{ID: testProID, TenantID: testTenantID}, nil)
	repo.On("GetServices", mock.Anything, testTenantID, ids).Return(services, nil)
	repo.On("GetWorkingHours", mock.Anything, testProID, testWeekday).
		Return(testWorkingHours(), nil)
	repo.On("ListScheduledForDay", mock.Anything, testProID, mock.Anything, mock.Anything).
		Return(existing, nil)

	return repo
}

func newCreateBooking(repo *MockRepository) *CreateBooking {
	return NewCreateBooking(repo, lock.NoopLocker{}, nil, nil)
}

func TestCreateBooking_Success(t *testing.T) {
	repo := bookingRepo(t, nil, testServices(), []uint{1, 2})

	repo.On("CreateBooking", mock.Anything, mock.MatchedBy(func(b domain.Booking) bool {
		return b.ProfessionalID == testProID && b.End.Sub(b.Start).Minutes() == 45
	})).Return(&models.Appointment{ID: 10, TenantID: testTenantID, ProfessionalID: testProID}, nil)

	uc := newCreateBooking(repo)
	ap, err := uc.Execute(context.Background(), CreateBookingInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		CustomerName:   "Ana",
		CustomerPhone:  "+5511999990000",
		ServiceIDs:     []uint{1, 2},
		Start:          localInstant(t, 9, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, uint(10), ap.ID)
	repo.AssertExpectations(t)
}

// A freshly rendered free slot, submitted with no competing appointments,
// always commits.
func TestCreateBooking_GeneratedSlotIsBookable(t *testing.T) {
	repo := bookingRepo(t, nil, testServices()[:1], []uint{1})
	repo.On("GetServices", mock.Anything, testTenantID, []uint{1}).Return(testServices()[:1], nil)
	repo.On("CreateBooking", mock.Anything, mock.Anything).
		Return(&models.Appointment{ID: 11}, nil)

	availability := NewGetAvailability(repo)
	slots, err := availability.Execute(context.Background(), domain.AvailabilityInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		ServiceIDs:     []uint{1},
		Date:           testDate,
	})
	require.NoError(t, err)

	first := slots[0]
	require.True(t, first.Available)
	require.Equal(t, "09:00", first.Time)

	uc := newCreateBooking(repo)
	_, err = uc.Execute(context.Background(), CreateBookingInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		CustomerName:   "Bruno",
		CustomerPhone:  "+5511988887777",
		ServiceIDs:     []uint{1},
		Start:          localInstant(t, 9, 0),
	})
	require.NoError(t, err)
}

func TestCreateBooking_EmptyServiceSelection(t *testing.T) {
	uc := newCreateBooking(new(MockRepository))

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		Start:          localInstant(t, 9, 0),
	})

	assert.True(t, httperr.IsBusiness(err, httperr.CodeEmptyServiceSelection))
}

func TestCreateBooking_UnknownService(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetTenantByID", mock.Anything, testTenantID).Return(testTenant(), nil)
	repo.On("GetProfessional", mock.Anything, testTenantID, testProID).
		Return(&models.Professional{ID: testProID}, nil)
	repo.On("GetServices", mock.Anything, testTenantID, []uint{1, 42}).
		Return(testServices()[:1], nil)

	uc := newCreateBooking(repo)
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		ServiceIDs:     []uint{1, 42},
		Start:          localInstant(t, 9, 0),
	})

	assert.True(t, httperr.IsBusiness(err, httperr.CodeServiceNotFound))
}

// The re-check right before the write rejects a booking once a competing
// write is visible: the second of two racing requests loses cleanly.
func TestCreateBooking_RecheckRejectsVisibleOverlap(t *testing.T) {
	existing := []models.Appointment{{
		ProfessionalID: testProID,
		StartTime:      localInstant(t, 9, 0),
		Services:       []models.Service{{DurationMin: 30}},
	}}

	repo := bookingRepo(t, existing, testServices()[:1], []uint{1})

	uc := newCreateBooking(repo)
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		ServiceIDs:     []uint{1},
		Start:          localInstant(t, 9, 15),
	})

	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotUnavailable))
	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

// Losing the race at the storage layer (the transactional re-check or the
// exclusion constraint) surfaces the same benign conflict.
func TestCreateBooking_StorageConflictSurfacesAsSlotUnavailable(t *testing.T) {
	repo := bookingRepo(t, nil, testServices()[:1], []uint{1})
	repo.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable))

	uc := newCreateBooking(repo)
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		ServiceIDs:     []uint{1},
		Start:          localInstant(t, 9, 0),
	})

	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotUnavailable))
}

func TestCreateBooking_OutsideWorkingHours(t *testing.T) {
	repo := bookingRepo(t, nil, testServices()[:1], []uint{1})

	uc := newCreateBooking(repo)

	// 18:00 start is past closing; 12:15 sits inside lunch.
	for _, in := range []CreateBookingInput{
		{TenantID: testTenantID, ProfessionalID: testProID, ServiceIDs: []uint{1}, Start: localInstant(t, 18, 0)},
		{TenantID: testTenantID, ProfessionalID: testProID, ServiceIDs: []uint{1}, Start: localInstant(t, 12, 15)},
	} {
		_, err := uc.Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeOutsideWorkingHours))
	}
}

// Total duration and the conflict decision do not depend on the order the
// services were selected in.
func TestCreateBooking_ServiceSetCommutes(t *testing.T) {
	services := testServices()
	reversed := []models.Service{services[1], services[0]}

	var durations []float64
	for _, order := range [][2]any{{[]uint{1, 2}, services}, {[]uint{2, 1}, reversed}} {
		ids := order[0].([]uint)
		svcs := order[1].([]models.Service)

		repo := new(MockRepository)
		repo.On("GetTenantByID", mock.Anything, testTenantID).Return(testTenant(), nil)
		repo.On("GetProfessional", mock.Anything, testTenantID, testProID).
			Return(&models.Professional{ID: testProID}, nil)
		repo.On("GetServices", mock.Anything, testTenantID, ids).Return(svcs, nil)
		repo.On("GetWorkingHours", mock.Anything, testProID, testWeekday).
			Return(testWorkingHours(), nil)
		repo.On("ListScheduledForDay", mock.Anything, testProID, mock.Anything, mock.Anything).
			Return([]models.Appointment{}, nil)

		var got domain.Booking
		repo.On("CreateBooking", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { got = args.Get(1).(domain.Booking) }).
			Return(&models.Appointment{ID: 12}, nil)

		uc := newCreateBooking(repo)
		_, err := uc.Execute(context.Background(), CreateBookingInput{
			TenantID:       testTenantID,
			ProfessionalID: testProID,
			ServiceIDs:     ids,
			Start:          localInstant(t, 9, 0),
		})
		require.NoError(t, err)

		durations = append(durations, got.End.Sub(got.Start).Minutes())
	}

	assert.Equal(t, durations[0], durations[1])
	assert.Equal(t, 45.0, durations[0])
}

func TestCreateBooking_MinAdvanceLeadTime(t *testing.T) {
	tenant := testTenant()
	tenant.MinAdvanceMinutes = 120

	repo := new(MockRepository)
	repo.On("GetTenantByID", mock.Anything, testTenantID).Return(tenant, nil)
	repo.On("GetProfessional", mock.Anything, testTenantID, testProID).
		Return(&models.Professional{ID: testProID}, nil)
	repo.On("GetServices", mock.Anything, testTenantID, []uint{1}).
		Return(testServices()[:1], nil)

	uc := newCreateBooking(repo)
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TenantID:       testTenantID,
		ProfessionalID: testProID,
		ServiceIDs:     []uint{1},
		// 30 minutes ahead, below the 120-minute lead time.
		Start: time.Now().Add(30 * time.Minute),
	})

	assert.True(t, httperr.IsBusiness(err, httperr.CodeTooSoon))
}
