package appointment

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	domain "github.com/agendlyapp/booking-platform/internal/domain/appointment"
	"github.com/agendlyapp/booking-platform/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetTenantByID(ctx context.Context, id uint) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockRepository) GetProfessional(ctx context.Context, tenantID, professionalID uint) (*models.Professional, error) {
	args := m.Called(ctx, tenantID, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Professional), args.Error(1)
}

func (m *MockRepository) GetServices(ctx context.Context, tenantID uint, serviceIDs []uint) ([]models.Service, error) {
	args := m.Called(ctx, tenantID, serviceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *MockRepository) CreateBooking(ctx context.Context, b domain.Booking) (*models.Appointment, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockRepository) GetAppointmentForProfessional(ctx context.Context, appointmentID, professionalID uint) (*models.Appointment, error) {
	args := m.Called(ctx, appointmentID, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	args := m.Called(ctx, ap)
	return args.Error(0)
}

func (m *MockRepository) GetWorkingHours(ctx context.Context, professionalID uint, weekday int) (*models.WorkingHours, error) {
	args := m.Called(ctx, professionalID, weekday)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkingHours), args.Error(1)
}

func (m *MockRepository) ListScheduledForDay(ctx context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	args := m.Called(ctx, professionalID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockRepository) ListAppointmentsForPeriod(ctx context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	args := m.Called(ctx, professionalID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}

var _ domain.Repository = (*MockRepository)(nil)
