package appointment

import (
	"context"
	"time"

	"github.com/agendlyapp/booking-platform/internal/models"
)

// Booking is everything the repository needs to commit a booking atomically:
// customer upsert, conflict re-check and appointment insert run in one
// transaction, so no partial state is ever observable.
type Booking struct {
	TenantID       uint
	ProfessionalID uint

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	Services []models.Service
	Start    time.Time
	End      time.Time
	Notes    string
}

type Repository interface {
	// -------- Tenant --------
	GetTenantByID(
		ctx context.Context,
		id uint,
	) (*models.Tenant, error)

	// -------- Professional --------
	GetProfessional(
		ctx context.Context,
		tenantID uint,
		professionalID uint,
	) (*models.Professional, error)

	// -------- Services --------
	GetServices(
		ctx context.Context,
		tenantID uint,
		serviceIDs []uint,
	) ([]models.Service, error)

	// -------- Booking (atomic commit) --------
	CreateBooking(
		ctx context.Context,
		b Booking,
	) (*models.Appointment, error)

	// -------- Appointment (state change) --------
	GetAppointmentForProfessional(
		ctx context.Context,
		appointmentID uint,
		professionalID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Availability --------
	GetWorkingHours(
		ctx context.Context,
		professionalID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListScheduledForDay(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
