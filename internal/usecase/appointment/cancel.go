package appointment

import (
	"context"

	"github.com/agendlyapp/booking-platform/internal/audit"
	domain "github.com/agendlyapp/booking-platform/internal/domain/appointment"
	"github.com/agendlyapp/booking-platform/internal/events"
	"github.com/agendlyapp/booking-platform/internal/httperr"
	"github.com/agendlyapp/booking-platform/internal/metrics"
	"github.com/agendlyapp/booking-platform/internal/models"
	"github.com/agendlyapp/booking-platform/internal/timezone"
)

type CancelAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewCancelAppointment(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	pub *events.Publisher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		audit:  auditD,
		events: pub,
	}
}

// Execute flips a scheduled appointment to cancelled. The row stays in place;
// conflict and slot computations simply stop seeing it.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	professionalID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeTenantNotFound)
	}

	ap, err := uc.repo.GetAppointmentForProfessional(ctx, appointmentID, professionalID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}

	now := timezone.NowIn(tenant.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	metrics.BookingsCancelled.Inc()

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			TenantID:       tenantID,
			ProfessionalID: &professionalID,
			Action:         "appointment_cancelled",
			Entity:         "appointment",
			EntityID:       &ap.ID,
		})
	}

	uc.events.AppointmentCancelled(ap)

	return ap, nil
}
