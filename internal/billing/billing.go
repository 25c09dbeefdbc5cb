package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"gorm.io/gorm"

	appconfig "github.com/agendlyapp/booking-platform/internal/config"
	"github.com/agendlyapp/booking-platform/internal/logger"
	"github.com/agendlyapp/booking-platform/internal/models"
	"go.uber.org/zap"
)

// Plan is a purchasable subscription period.
type Plan struct {
	Code  string
	Title string
	Price float64
	Days  int
}

var Plans = map[string]Plan{
	"pro_monthly": {Code: "pro_monthly", Title: "Agendly Pro (mensal)", Price: 49.90, Days: 30},
	"pro_yearly":  {Code: "pro_yearly", Title: "Agendly Pro (anual)", Price: 499.00, Days: 365},
}

// Service creates checkout preferences and applies approved payments to the
// tenant's plan.
type Service struct {
	preferences preference.Client
	payments    payment.Client
	webhookURL  string
}

// NewService returns nil when no access token is configured; billing routes
// stay off in that case.
func NewService(cfg *appconfig.Config) *Service {
	if cfg.MercadoPagoAccessToken == "" {
		return nil
	}

	mpCfg, err := mpconfig.New(cfg.MercadoPagoAccessToken)
	if err != nil {
		logger.L().Warn("mercadopago config rejected, billing disabled", zap.Error(err))
		return nil
	}

	return &Service{
		preferences: preference.NewClient(mpCfg),
		payments:    payment.NewClient(mpCfg),
		webhookURL:  cfg.MercadoPagoWebhookURL,
	}
}

// CreateCheckout builds a checkout preference for one plan and returns the
// redirect URL. The external reference carries the tenant and plan so the
// webhook can apply the payment later.
func (s *Service) CreateCheckout(ctx context.Context, tenant *models.Tenant, planCode string) (string, error) {
	plan, ok := Plans[planCode]
	if !ok {
		return "", fmt.Errorf("unknown plan %q", planCode)
	}

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:        plan.Code,
				Title:     plan.Title,
				Quantity:  1,
				UnitPrice: plan.Price,
			},
		},
		ExternalReference: fmt.Sprintf("tenant:%d:plan:%s", tenant.ID, plan.Code),
	}

	if s.webhookURL != "" {
		req.NotificationURL = s.webhookURL
	}

	resource, err := s.preferences.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create preference: %w", err)
	}

	return resource.InitPoint, nil
}

// ApplyPayment fetches a payment by id and, when approved, extends the plan
// of the tenant named in the external reference. Repeated notifications for
// the same payment are harmless; extending from an already-future expiry just
// recomputes the same window.
func (s *Service) ApplyPayment(ctx context.Context, db *gorm.DB, paymentID int) error {
	p, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("get payment: %w", err)
	}

	if p.Status != "approved" {
		logger.L().Info("ignoring non-approved payment",
			zap.Int("payment_id", paymentID),
			zap.String("status", p.Status),
		)
		return nil
	}

	tenantID, plan, err := parseExternalReference(p.ExternalReference)
	if err != nil {
		return err
	}

	var tenant models.Tenant
	if err := db.First(&tenant, tenantID).Error; err != nil {
		return fmt.Errorf("tenant %d: %w", tenantID, err)
	}

	base := time.Now()
	if tenant.PlanExpiresAt != nil && tenant.PlanExpiresAt.After(base) {
		base = *tenant.PlanExpiresAt
	}
	expires := base.AddDate(0, 0, plan.Days)

	tenant.PlanStatus = "active"
	tenant.PlanExpiresAt = &expires

	if err := db.Save(&tenant).Error; err != nil {
		return fmt.Errorf("save tenant plan: %w", err)
	}

	logger.L().Info("plan extended",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("plan", plan.Code),
		zap.Time("expires_at", expires),
	)

	return nil
}

func parseExternalReference(ref string) (uint, Plan, error) {
	// tenant:<id>:plan:<code>
	parts := strings.Split(ref, ":")
	if len(parts) != 4 || parts[0] != "tenant" || parts[2] != "plan" {
		return 0, Plan{}, fmt.Errorf("malformed external reference %q", ref)
	}

	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, Plan{}, fmt.Errorf("malformed tenant id in %q", ref)
	}

	plan, ok := Plans[parts[3]]
	if !ok {
		return 0, Plan{}, fmt.Errorf("unknown plan in %q", ref)
	}

	return uint(id), plan, nil
}
