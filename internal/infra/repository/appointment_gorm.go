package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/agendlyapp/booking-platform/internal/domain/appointment"
	"github.com/agendlyapp/booking-platform/internal/httperr"
	"github.com/agendlyapp/booking-platform/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *AppointmentGormRepository) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// --------------------------------------------------
// Professional
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	tenantID uint,
	professionalID uint,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", professionalID, tenantID).
		First(&pro).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (r *AppointmentGormRepository) GetServices(
	ctx context.Context,
	tenantID uint,
	serviceIDs []uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = true AND id IN ?", tenantID, serviceIDs).
		Find(&services).Error; err != nil {
		return nil, err
	}

	return services, nil
}

// --------------------------------------------------
// Booking (atomic commit)
// --------------------------------------------------

// CreateBooking commits the customer upsert, the conflict re-check and the
// appointment insert as one transaction. Rollback on any exit path except
// full success, so a lost race never leaves an orphaned customer or a
// half-written appointment behind.
func (r *AppointmentGormRepository) CreateBooking(
	ctx context.Context,
	b domain.Booking,
) (*models.Appointment, error) {

	var created *models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := upsertCustomer(tx, b.TenantID, b.CustomerName, b.CustomerPhone, b.CustomerEmail)
		if err != nil {
			return err
		}

		// Fresh re-check inside the transaction, rows locked, to catch
		// bookings committed since the pure check ran.
		q := tx.Model(&models.Appointment{})
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var count int64
		if err := q.
			Where(
				"professional_id = ? AND status = 'scheduled' AND start_time < ? AND end_time > ?",
				b.ProfessionalID,
				b.End,
				b.Start,
			).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness(httperr.CodeSlotUnavailable)
		}

		ap := &models.Appointment{
			PublicRef:      uuid.NewString(),
			TenantID:       b.TenantID,
			ProfessionalID: b.ProfessionalID,
			CustomerID:     customer.ID,
			Services:       b.Services,
			StartTime:      b.Start.UTC(),
			EndTime:        b.End.UTC(),
			Status:         string(domain.InitialStatus()),
			Notes:          b.Notes,
		}

		if err := tx.Create(ap).Error; err != nil {
			// The exclusion constraint is the last word on overlaps; losing
			// to it is the same benign conflict as losing the re-check.
			if isOverlapViolation(err) {
				return httperr.ErrBusiness(httperr.CodeSlotUnavailable)
			}
			return err
		}

		ap.Customer = *customer
		created = ap
		return nil
	})

	if err != nil {
		return nil, err
	}

	return created, nil
}

// upsertCustomer deduplicates by (tenant, phone); the submitted name always
// wins over the stored one.
func upsertCustomer(
	tx *gorm.DB,
	tenantID uint,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	var customer models.Customer
	err := tx.
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&customer).Error

	if err == nil {
		customer.Name = name
		if email != "" {
			customer.Email = email
		}
		if err := tx.Save(&customer).Error; err != nil {
			return nil, err
		}
		return &customer, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		TenantID: tenantID,
		Name:     name,
		Phone:    phone,
		Email:    email,
	}

	if err := tx.Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	// 23P01 = exclusion_violation (appointments_no_overlap), 23505 covers a
	// plain unique index standing in for it on older schemas.
	return pgErr.Code == "23P01" || pgErr.Code == "23505"
}

// --------------------------------------------------
// Appointment (Cancel / Complete)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentForProfessional(
	ctx context.Context,
	appointmentID uint,
	professionalID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("id = ? AND professional_id = ?", appointmentID, professionalID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit("Services", "Customer", "Tenant", "Professional").Save(ap).Error
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	professionalID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&wh).Error; err != nil {
		return nil, err
	}

	return &wh, nil
}

func (r *AppointmentGormRepository) ListScheduledForDay(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Where(
			"professional_id = ? AND status = 'scheduled' AND start_time >= ? AND start_time <= ?",
			professionalID, start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Services").
		Where(
			"professional_id = ? AND start_time >= ? AND start_time < ?",
			professionalID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
