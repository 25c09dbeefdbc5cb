package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendlyapp/booking-platform/internal/audit"
	domain "github.com/agendlyapp/booking-platform/internal/domain/appointment"
	"github.com/agendlyapp/booking-platform/internal/events"
	"github.com/agendlyapp/booking-platform/internal/httperr"
	"github.com/agendlyapp/booking-platform/internal/lock"
	"github.com/agendlyapp/booking-platform/internal/models"
	"github.com/agendlyapp/booking-platform/internal/usecase/appointment"
	"github.com/agendlyapp/booking-platform/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db *gorm.DB

	create       *appointment.CreateBooking
	availability *appointment.GetAvailability
}

func NewPublicHandler(
	db *gorm.DB,
	repo domain.Repository,
	locker lock.ProfessionalLocker,
	auditD *audit.Dispatcher,
	pub *events.Publisher,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		create:       appointment.NewCreateBooking(repo, locker, auditD, pub),
		availability: appointment.NewGetAvailability(repo),
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateBookingRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`

	ProfessionalID uint   `json:"professional_id"`
	ServiceIDs     []uint `json:"service_ids" binding:"required"`

	// Absolute start instant, RFC 3339. The tenant's timezone decides which
	// civil day and working-hours row it falls into.
	Start string `json:"start" binding:"required"`

	Notes string `json:"notes"`
}

////////////////////////////////////////////////////////
// TENANT + PROFESSIONAL RESOLUTION
////////////////////////////////////////////////////////

func (h *PublicHandler) tenantBySlug(c *gin.Context) (*models.Tenant, bool) {
	slug := c.Param("slug")

	var tenant models.Tenant
	if err := h.db.Where("slug = ?", slug).First(&tenant).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "Estabelecimento não encontrado.")
		return nil, false
	}
	return &tenant, true
}

// resolveProfessional picks the requested professional, or the tenant's owner
// when the booking page does not expose a choice.
func (h *PublicHandler) resolveProfessional(tenantID, professionalID uint) (*models.Professional, error) {
	var pro models.Professional

	q := h.db.Where("tenant_id = ?", tenantID)
	if professionalID != 0 {
		q = q.Where("id = ?", professionalID)
	} else {
		q = q.Where("role = ?", "owner")
	}

	if err := q.First(&pro).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	tenant, ok := h.tenantBySlug(c)
	if !ok {
		return
	}

	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.Where("tenant_id = ? AND active = true", tenant.ID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant":   tenant,
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	tenant, ok := h.tenantBySlug(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	serviceIDs, err := parseServiceIDs(c.Query("service_ids"))
	if dateStr == "" || err != nil || len(serviceIDs) == 0 {
		httperr.BadRequest(c, "missing_params", "Data e serviços obrigatórios.")
		return
	}

	var professionalID uint
	if p := c.Query("professional_id"); p != "" {
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
			return
		}
		professionalID = uint(id)
	}

	pro, err := h.resolveProfessional(tenant.ID, professionalID)
	if err != nil {
		httperr.BadRequest(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	slots, err := h.availability.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			TenantID:       tenant.ID,
			ProfessionalID: pro.ID,
			ServiceIDs:     serviceIDs,
			Date:           dateStr,
		},
	)
	if err != nil {
		writeBusinessOr500(c, err, "availability_failed", "Erro ao calcular horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	tenant, ok := h.tenantBySlug(c)
	if !ok {
		return
	}

	var req PublicCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		httperr.BadRequest(c, "invalid_start", "Horário de início inválido.")
		return
	}

	pro, err := h.resolveProfessional(tenant.ID, req.ProfessionalID)
	if err != nil {
		httperr.BadRequest(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	ap, err := h.create.Execute(
		c.Request.Context(),
		appointment.CreateBookingInput{
			TenantID:       tenant.ID,
			ProfessionalID: pro.ID,
			CustomerName:   req.CustomerName,
			CustomerPhone:  validators.NormalizePhone(req.CustomerPhone),
			CustomerEmail:  strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
			ServiceIDs:     req.ServiceIDs,
			Start:          start,
			Notes:          req.Notes,
		},
	)
	if err != nil {
		writeBusinessOr500(c, err, "failed_to_create_booking", "Erro ao criar agendamento.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"public_ref": ap.PublicRef,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
		"status":     ap.Status,
	})
}
