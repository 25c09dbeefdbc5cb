package appointment

import (
	"context"
	"time"

	"github.com/agendlyapp/booking-platform/internal/audit"
	domain "github.com/agendlyapp/booking-platform/internal/domain/appointment"
	"github.com/agendlyapp/booking-platform/internal/domain/schedule"
	"github.com/agendlyapp/booking-platform/internal/events"
	"github.com/agendlyapp/booking-platform/internal/httperr"
	"github.com/agendlyapp/booking-platform/internal/lock"
	"github.com/agendlyapp/booking-platform/internal/metrics"
	"github.com/agendlyapp/booking-platform/internal/models"
	"github.com/agendlyapp/booking-platform/internal/timeutil"
	"github.com/agendlyapp/booking-platform/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	TenantID       uint
	ProfessionalID uint

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	ServiceIDs []uint

	// Absolute start instant; the civil day it belongs to is derived in the
	// tenant's timezone.
	Start time.Time

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo   domain.Repository
	locker lock.ProfessionalLocker
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewCreateBooking(
	repo domain.Repository,
	locker lock.ProfessionalLocker,
	auditD *audit.Dispatcher,
	pub *events.Publisher,
) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		locker: locker,
		audit:  auditD,
		events: pub,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute runs the booking transaction: validate, price out the duration,
// re-check conflicts against a fresh read, then commit customer + appointment
// as one unit. Two concurrent requests for the same window can both pass the
// pure conflict check; the per-professional lock narrows that window and the
// repository's transactional re-check (plus the storage constraint) decides
// the winner. The loser always surfaces slot_unavailable, never partial state.
func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Service selection
	// --------------------------------------------------
	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrBusiness(httperr.CodeEmptyServiceSelection)
	}

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeTenantNotFound)
	}
	loc := timezone.Location(tenant.Timezone)

	if _, err := uc.repo.GetProfessional(ctx, in.TenantID, in.ProfessionalID); err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeProfessionalNotFound)
	}

	services, err := uc.repo.GetServices(ctx, in.TenantID, in.ServiceIDs)
	if err != nil || len(services) != len(in.ServiceIDs) {
		return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
	}

	durationMin := totalDuration(services)
	if durationMin <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDuration)
	}

	// --------------------------------------------------
	// 2. Interval in the tenant's civil day
	// --------------------------------------------------
	start := in.Start.In(loc)
	end := start.Add(time.Duration(durationMin) * time.Minute)

	if tenant.MinAdvanceMinutes > 0 {
		now := timezone.NowIn(tenant.Timezone)
		if start.Before(now.Add(time.Duration(tenant.MinAdvanceMinutes) * time.Minute)) {
			return nil, httperr.ErrBusiness(httperr.CodeTooSoon)
		}
	}

	proposed := schedule.Interval{
		Start: timeutil.MinutesIntoDay(start, loc),
		End:   timeutil.MinutesIntoDay(start, loc) + durationMin,
	}

	// --------------------------------------------------
	// 3. Working hours + lunch
	// --------------------------------------------------
	wh, err := uc.repo.GetWorkingHours(ctx, in.ProfessionalID, int(start.Weekday()))
	if err != nil || !wh.Active {
		return nil, httperr.ErrBusiness(httperr.CodeOutsideWorkingHours)
	}

	day, err := schedule.ParseWorkDay(wh)
	if err != nil {
		return nil, err
	}

	if !day.Contains(proposed) {
		return nil, httperr.ErrBusiness(httperr.CodeOutsideWorkingHours)
	}

	// --------------------------------------------------
	// 4. Conflict check against a fresh read
	// --------------------------------------------------
	date := start.Format("2006-01-02")
	dayStart, dayEnd, err := timeutil.CivilDayBounds(date, loc)
	if err != nil {
		return nil, err
	}

	release, err := uc.locker.Acquire(ctx, in.ProfessionalID)
	if err != nil {
		metrics.BookingConflicts.Inc()
		return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}
	defer release()

	existing, err := uc.repo.ListScheduledForDay(ctx, in.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	if schedule.HasConflict(proposed, busyIntervals(existing, loc)) {
		metrics.BookingConflicts.Inc()
		return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}

	// --------------------------------------------------
	// 5. Atomic commit: customer upsert + appointment
	// --------------------------------------------------
	ap, err := uc.repo.CreateBooking(ctx, domain.Booking{
		TenantID:       in.TenantID,
		ProfessionalID: in.ProfessionalID,
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		CustomerEmail:  in.CustomerEmail,
		Services:       services,
		Start:          start,
		End:            end,
		Notes:          in.Notes,
	})
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeSlotUnavailable) {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			TenantID: in.TenantID,
			Action:   "appointment_created",
			Entity:   "appointment",
			EntityID: &ap.ID,
		})
	}

	uc.events.AppointmentCreated(ap)

	return ap, nil
}
