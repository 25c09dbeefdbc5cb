package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	dbpkg "github.com/agendlyapp/booking-platform/internal/db"
	domain "github.com/agendlyapp/booking-platform/internal/domain/appointment"
	"github.com/agendlyapp/booking-platform/internal/httperr"
	"github.com/agendlyapp/booking-platform/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        ":memory:",
		}),
		&gorm.Config{},
	)
	require.NoError(t, err)

	// One connection, or every pooled conn would see its own empty memory DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbpkg.Migrate(db))
	return db
}

func seed(t *testing.T, db *gorm.DB) (*models.Tenant, *models.Professional, models.Service) {
	t.Helper()

	tenant := models.Tenant{Name: "Studio Centro", Slug: "studio-centro", Timezone: "America/Sao_Paulo"}
	require.NoError(t, db.Create(&tenant).Error)

	pro := models.Professional{TenantID: tenant.ID, Name: "Carla", Email: "carla@studio.test", PasswordHash: "x"}
	require.NoError(t, db.Create(&pro).Error)

	svc := models.Service{TenantID: tenant.ID, Name: "Corte", DurationMin: 30, Price: 50, Active: true}
	require.NoError(t, db.Create(&svc).Error)

	return &tenant, &pro, svc
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 9, hour, minute, 0, 0, time.UTC)
}

func booking(tenant *models.Tenant, pro *models.Professional, svc models.Service, phone, name string, start time.Time) domain.Booking {
	return domain.Booking{
		TenantID:       tenant.ID,
		ProfessionalID: pro.ID,
		CustomerName:   name,
		CustomerPhone:  phone,
		Services:       []models.Service{svc},
		Start:          start,
		End:            start.Add(30 * time.Minute),
	}
}

func TestCreateBooking_PersistsAppointmentWithServices(t *testing.T) {
	db := testDB(t)
	tenant, pro, svc := seed(t, db)
	repo := NewAppointmentGormRepository(db)

	ap, err := repo.CreateBooking(context.Background(),
		booking(tenant, pro, svc, "+5511999990000", "Ana", at(13, 0)))
	require.NoError(t, err)

	assert.NotZero(t, ap.ID)
	assert.NotEmpty(t, ap.PublicRef)
	assert.Equal(t, "scheduled", ap.Status)
	assert.Equal(t, "Ana", ap.Customer.Name)

	var stored models.Appointment
	require.NoError(t, db.Preload("Services").First(&stored, ap.ID).Error)
	require.Len(t, stored.Services, 1)
	assert.Equal(t, 30, stored.Services[0].DurationMin)
}

func TestCreateBooking_CustomerUpsertLastWriteWins(t *testing.T) {
	db := testDB(t)
	tenant, pro, svc := seed(t, db)
	repo := NewAppointmentGormRepository(db)

	_, err := repo.CreateBooking(context.Background(),
		booking(tenant, pro, svc, "+5511999990000", "Ana", at(13, 0)))
	require.NoError(t, err)

	_, err = repo.CreateBooking(context.Background(),
		booking(tenant, pro, svc, "+5511999990000", "Ana Maria", at(15, 0)))
	require.NoError(t, err)

	var customers []models.Customer
	require.NoError(t, db.Where("tenant_id = ?", tenant.ID).Find(&customers).Error)
	require.Len(t, customers, 1, "phone is the dedup key inside a tenant")
	assert.Equal(t, "Ana Maria", customers[0].Name)
}

func TestCreateBooking_RecheckRejectsOverlapAtomically(t *testing.T) {
	db := testDB(t)
	tenant, pro, svc := seed(t, db)
	repo := NewAppointmentGormRepository(db)

	_, err := repo.CreateBooking(context.Background(),
		booking(tenant, pro, svc, "+5511999990000", "Ana", at(13, 0)))
	require.NoError(t, err)

	// Overlapping attempt from a different customer loses the race.
	_, err = repo.CreateBooking(context.Background(),
		booking(tenant, pro, svc, "+5511888880000", "Bruno", at(13, 15)))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotUnavailable))

	// The rolled-back transaction left no trace of the losing customer.
	var count int64
	require.NoError(t, db.Model(&models.Customer{}).
		Where("phone = ?", "+5511888880000").Count(&count).Error)
	assert.Zero(t, count)

	var appointments int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&appointments).Error)
	assert.EqualValues(t, 1, appointments)
}

func TestCreateBooking_AdjacentIntervalsDoNotConflict(t *testing.T) {
	db := testDB(t)
	tenant, pro, svc := seed(t, db)
	repo := NewAppointmentGormRepository(db)

	_, err := repo.CreateBooking(context.Background(),
		booking(tenant, pro, svc, "+5511999990000", "Ana", at(13, 0)))
	require.NoError(t, err)

	_, err = repo.CreateBooking(context.Background(),
		booking(tenant, pro, svc, "+5511888880000", "Bruno", at(13, 30)))
	assert.NoError(t, err, "back-to-back bookings share only a boundary instant")
}

func TestCreateBooking_CancelledAppointmentFreesTheSlot(t *testing.T) {
	db := testDB(t)
	tenant, pro, svc := seed(t, db)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	ap, err := repo.CreateBooking(ctx,
		booking(tenant, pro, svc, "+5511999990000", "Ana", at(13, 0)))
	require.NoError(t, err)

	now := time.Now()
	ap.Status = "cancelled"
	ap.CancelledAt = &now
	require.NoError(t, repo.UpdateAppointment(ctx, ap))

	_, err = repo.CreateBooking(ctx,
		booking(tenant, pro, svc, "+5511888880000", "Bruno", at(13, 0)))
	assert.NoError(t, err, "cancelled rows are invisible to conflict checks")
}

func TestListScheduledForDay_ExcludesCancelled(t *testing.T) {
	db := testDB(t)
	tenant, pro, svc := seed(t, db)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	kept, err := repo.CreateBooking(ctx,
		booking(tenant, pro, svc, "+5511999990000", "Ana", at(13, 0)))
	require.NoError(t, err)

	dropped, err := repo.CreateBooking(ctx,
		booking(tenant, pro, svc, "+5511888880000", "Bruno", at(15, 0)))
	require.NoError(t, err)

	now := time.Now()
	dropped.Status = "cancelled"
	dropped.CancelledAt = &now
	require.NoError(t, repo.UpdateAppointment(ctx, dropped))

	apps, err := repo.ListScheduledForDay(ctx, pro.ID, at(0, 0), at(23, 59))
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, kept.ID, apps[0].ID)
	require.Len(t, apps[0].Services, 1, "service durations ride along for interval math")
}

func TestGetServices_ScopedToTenant(t *testing.T) {
	db := testDB(t)
	tenant, _, svc := seed(t, db)
	repo := NewAppointmentGormRepository(db)

	other := models.Tenant{Name: "Outro", Slug: "outro"}
	require.NoError(t, db.Create(&other).Error)
	foreign := models.Service{TenantID: other.ID, Name: "Alheio", DurationMin: 60, Active: true}
	require.NoError(t, db.Create(&foreign).Error)

	services, err := repo.GetServices(context.Background(), tenant.ID, []uint{svc.ID, foreign.ID})
	require.NoError(t, err)
	require.Len(t, services, 1, "a foreign tenant's service id must not resolve")
	assert.Equal(t, svc.ID, services[0].ID)
}
