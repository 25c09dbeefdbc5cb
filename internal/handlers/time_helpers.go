package handlers

import (
	"time"

	"github.com/agendlyapp/booking-platform/internal/models"
	"github.com/agendlyapp/booking-platform/internal/timezone"
)

// resolve the tenant's civil timezone, falling back to the platform default
func locationFromTenant(tenant *models.Tenant) *time.Location {
	if tenant != nil && tenant.Timezone != "" {
		if loc, err := time.LoadLocation(tenant.Timezone); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(timezone.DefaultTimezone)
	return loc
}

func nowInTenant(tenant *models.Tenant) time.Time {
	return time.Now().In(locationFromTenant(tenant))
}

func parseDateInTenant(tenant *models.Tenant, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromTenant(tenant),
	)
}

func parseDateTimeInTenant(
	tenant *models.Tenant,
	dateStr string,
	timeStr string,
) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		locationFromTenant(tenant),
	)
}
