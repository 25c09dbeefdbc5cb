package appointment

type AvailabilityInput struct {
	TenantID       uint
	ProfessionalID uint
	ServiceIDs     []uint
	Date           string // YYYY-MM-DD, interpreted in the tenant's timezone
	GranularityMin int    // 0 means the default step
}

// TimeSlot is one candidate of the availability grid, as rendered to clients.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
