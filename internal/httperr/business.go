package httperr

import "errors"

// Codes used across use cases. Handlers map them to HTTP statuses via Status.
const (
	CodeEmptyServiceSelection = "empty_service_selection"
	CodeInvalidTimeFormat     = "invalid_time_format"
	CodeInvalidDate           = "invalid_date"
	CodeInvalidDuration       = "invalid_duration"
	CodeServiceNotFound       = "service_not_found"
	CodeProfessionalNotFound  = "professional_not_found"
	CodeAppointmentNotFound   = "appointment_not_found"
	CodeTenantNotFound        = "tenant_not_found"
	CodeSlotUnavailable       = "slot_unavailable"
	CodeOutsideWorkingHours   = "outside_working_hours"
	CodeTooSoon               = "too_soon"
	CodeInvalidState          = "invalid_state"
	CodeInvalidWorkingHours   = "invalid_working_hours"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode extracts the code of a BusinessError, or "" for any other error.
func BusinessCode(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
