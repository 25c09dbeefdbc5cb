package appointment

import (
	"context"
	"time"

	domain "github.com/agendlyapp/booking-platform/internal/domain/appointment"
	"github.com/agendlyapp/booking-platform/internal/domain/schedule"
	"github.com/agendlyapp/booking-platform/internal/httperr"
	"github.com/agendlyapp/booking-platform/internal/metrics"
	"github.com/agendlyapp/booking-platform/internal/models"
	"github.com/agendlyapp/booking-platform/internal/timeutil"
	"github.com/agendlyapp/booking-platform/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Execute renders the availability grid of one professional for one civil
// day. An empty result means no working hours for that weekday; a day with no
// capacity still returns every candidate flagged unavailable.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	timer := time.Now()
	defer func() {
		metrics.AvailabilityRequests.Inc()
		metrics.AvailabilityDuration.Observe(time.Since(timer).Seconds())
	}()

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

	dayStart, dayEnd, err := timeutil.CivilDayBounds(in.Date, loc)
	if err != nil {
		return nil, err
	}

	weekday := int(dayStart.In(loc).Weekday())

	wh, err := uc.repo.GetWorkingHours(ctx, in.ProfessionalID, weekday)
	if err != nil || !wh.Active {
		return []domain.TimeSlot{}, nil
	}

	// A corrupt working-hours row aborts the whole computation; defaulting to
	// some made-up window would hide real misconfiguration.
	day, err := schedule.ParseWorkDay(wh)
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListScheduledForDay(ctx, in.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	busy := busyIntervals(appointments, loc)

	slots := schedule.GenerateSlots(day, busy, durationMin, in.GranularityMin)

	out := make([]domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, domain.TimeSlot{
			Time:      timeutil.MinutesToTime(s.StartMinutes),
			Available: s.Available,
		})
	}

	return out, nil
}

func totalDuration(services []models.Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMin
	}
	return total
}

// busyIntervals projects stored appointments onto minute offsets of the civil
// day. The occupied length is the sum of the appointment's service durations;
// the stored end instant is only a fallback for rows predating the service
// link table.
func busyIntervals(appointments []models.Appointment, loc *time.Location) []schedule.Interval {
	busy := make([]schedule.Interval, 0, len(appointments))
	for _, ap := range appointments {
		start := timeutil.MinutesIntoDay(ap.StartTime, loc)

		dur := ap.TotalDurationMin()
		if dur == 0 {
			dur = int(ap.EndTime.Sub(ap.StartTime).Minutes())
		}

		busy = append(busy, schedule.Interval{Start: start, End: start + dur})
	}
	return busy
}
