package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendlyapp/booking-platform/internal/audit"
	domain "github.com/agendlyapp/booking-platform/internal/domain/appointment"
	"github.com/agendlyapp/booking-platform/internal/events"
	"github.com/agendlyapp/booking-platform/internal/httperr"
	"github.com/agendlyapp/booking-platform/internal/lock"
	"github.com/agendlyapp/booking-platform/internal/middleware"
	"github.com/agendlyapp/booking-platform/internal/models"
	"github.com/agendlyapp/booking-platform/internal/usecase/appointment"
	"github.com/agendlyapp/booking-platform/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	create       *appointment.CreateBooking
	availability *appointment.GetAvailability
	cancel       *appointment.CancelAppointment
	complete     *appointment.CompleteAppointment
	listByDate   *appointment.ListAppointmentsByDate
	listByMonth  *appointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	db *gorm.DB,
	repo domain.Repository,
	locker lock.ProfessionalLocker,
	auditD *audit.Dispatcher,
	pub *events.Publisher,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:           db,
		create:       appointment.NewCreateBooking(repo, locker, auditD, pub),
		availability: appointment.NewGetAvailability(repo),
		cancel:       appointment.NewCancelAppointment(repo, auditD, pub),
		complete:     appointment.NewCompleteAppointment(repo, auditD),
		listByDate:   appointment.NewListAppointmentsByDate(repo),
		listByMonth:  appointment.NewListAppointmentsByMonth(repo),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`
	ServiceIDs    []uint `json:"service_ids" binding:"required"`
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	Time          string `json:"time" binding:"required"` // HH:mm
	Notes         string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.Internal(c, "tenant_not_found", "Estabelecimento não encontrado.")
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := parseDateTimeInTenant(&tenant, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateBookingInput{
		TenantID:       tenantID,
		ProfessionalID: professionalID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  validators.NormalizePhone(req.CustomerPhone),
		CustomerEmail:  strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		ServiceIDs:     req.ServiceIDs,
		Start:          start,
		Notes:          req.Notes,
	})
	if err != nil {
		writeBusinessOr500(c, err, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	serviceIDs, err := parseServiceIDs(c.Query("service_ids"))
	if err != nil {
		httperr.BadRequest(c, "invalid_service_ids", "Serviços inválidos.")
		return
	}

	granularity := 0
	if g := c.Query("granularity"); g != "" {
		granularity, err = strconv.Atoi(g)
		if err != nil || granularity < 0 {
			httperr.BadRequest(c, "invalid_granularity", "Granularidade inválida.")
			return
		}
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		TenantID:       tenantID,
		ProfessionalID: professionalID,
		ServiceIDs:     serviceIDs,
		Date:           dateStr,
		GranularityMin: granularity,
	})
	if err != nil {
		writeBusinessOr500(c, err, "availability_failed", "Erro ao calcular horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.Internal(c, "tenant_not_found", "Estabelecimento não encontrado.")
		return
	}

	date, err := parseDateInTenant(&tenant, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	aps, err := h.listByDate.Execute(c.Request.Context(), professionalID, tenantID, date)
	if err != nil {
		writeBusinessOr500(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(http.StatusOK, aps)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	aps, err := h.listByMonth.Execute(c.Request.Context(), professionalID, tenantID, year, month)
	if err != nil {
		writeBusinessOr500(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": aps,
	})
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), tenantID, professionalID, uint(id))
	if err != nil {
		writeBusinessOr500(c, err, "failed_to_cancel_appointment", "Erro ao cancelar agendamento.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), tenantID, professionalID, uint(id))
	if err != nil {
		writeBusinessOr500(c, err, "failed_to_complete_appointment", "Erro ao concluir agendamento.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// HELPERS
// ======================================================

// parseServiceIDs reads a comma-separated id list ("1,4,7").
func parseServiceIDs(raw string) ([]uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
