package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/agendlyapp/booking-platform/internal/audit"
	"github.com/agendlyapp/booking-platform/internal/billing"
	"github.com/agendlyapp/booking-platform/internal/cache"
	"github.com/agendlyapp/booking-platform/internal/config"
	"github.com/agendlyapp/booking-platform/internal/events"
	"github.com/agendlyapp/booking-platform/internal/handlers"
	infraRepo "github.com/agendlyapp/booking-platform/internal/infra/repository"
	"github.com/agendlyapp/booking-platform/internal/lock"
	"github.com/agendlyapp/booking-platform/internal/media"
	"github.com/agendlyapp/booking-platform/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	locker := lock.ForClient(cache.New(cfg))
	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)

	storage := media.NewStorage(cfg)
	billingSvc := billing.NewService(cfg)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	tenantHandler := handlers.NewTenantHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		appointmentRepo,
		locker,
		auditDispatcher,
		publisher,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(
		db,
		appointmentRepo,
		locker,
		auditDispatcher,
		publisher,
	)

	mediaHandler := handlers.NewMediaHandler(db, storage)
	billingHandler := handlers.NewBillingHandler(db, billingSvc)

	// ======================================================
	// OPERATIONAL
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/bookings", publicHandler.CreateBooking)
		}

		// ------------------------------
		// WEBHOOKS
		// ------------------------------
		api.POST("/webhooks/mercadopago", billingHandler.PaymentWebhook)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/tenant", tenantHandler.GetMeTenant)
			secured.PATCH("/me/tenant", tenantHandler.UpdateMeTenant)
			secured.POST("/me/tenant/logo", mediaHandler.UploadTenantLogo)

			secured.GET("/me/customers", customerHandler.List)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)
			secured.POST("/me/services/:id/image", mediaHandler.UploadServiceImage)

			secured.GET("/me/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/availability", appointmentHandler.Availability)
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)

			secured.POST("/me/billing/checkout", billingHandler.Checkout)
		}
	}
}
