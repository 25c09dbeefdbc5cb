package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agendlyapp/booking-platform/internal/billing"
	"github.com/agendlyapp/booking-platform/internal/httperr"
	"github.com/agendlyapp/booking-platform/internal/logger"
	"github.com/agendlyapp/booking-platform/internal/middleware"
	"github.com/agendlyapp/booking-platform/internal/models"
)

type BillingHandler struct {
	db      *gorm.DB
	billing *billing.Service
}

func NewBillingHandler(db *gorm.DB, svc *billing.Service) *BillingHandler {
	return &BillingHandler{db: db, billing: svc}
}

func (h *BillingHandler) enabled(c *gin.Context) bool {
	if h.billing == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "billing_disabled", "Pagamentos não estão habilitados.")
		return false
	}
	return true
}

type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// Checkout starts a payment flow and returns the redirect URL.
func (h *BillingHandler) Checkout(c *gin.Context) {
	if !h.enabled(c) {
		return
	}

	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if _, ok := billing.Plans[req.Plan]; !ok {
		httperr.BadRequest(c, "unknown_plan", "Plano desconhecido.")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "Estabelecimento não encontrado.")
		return
	}

	url, err := h.billing.CreateCheckout(c.Request.Context(), &tenant, req.Plan)
	if err != nil {
		logger.L().Error("checkout creation failed", zap.Error(err))
		httperr.Internal(c, "checkout_failed", "Erro ao iniciar pagamento.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}

// PaymentWebhook receives payment notifications. The payload id is always
// re-fetched from the API; the notification body itself is untrusted.
func (h *BillingHandler) PaymentWebhook(c *gin.Context) {
	if !h.enabled(c) {
		return
	}

	if c.Query("type") != "payment" {
		c.Status(http.StatusOK)
		return
	}

	idStr := c.Query("data.id")
	if idStr == "" {
		idStr = c.Query("id")
	}

	paymentID, err := strconv.Atoi(idStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_payment_id", "Identificador de pagamento inválido.")
		return
	}

	if err := h.billing.ApplyPayment(c.Request.Context(), h.db, paymentID); err != nil {
		logger.L().Error("payment notification failed",
			zap.Int("payment_id", paymentID),
			zap.Error(err),
		)
		// Non-2xx makes the gateway retry later.
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}
