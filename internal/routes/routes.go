package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/config"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/handlers"
	infraRepo "github.com/BruksfildServices01/agenda-engine/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-engine/internal/jobs"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/middleware"
	"github.com/BruksfildServices01/agenda-engine/internal/notify"
	"github.com/BruksfildServices01/agenda-engine/internal/ratelimit"
	ucAppointment "github.com/BruksfildServices01/agenda-engine/internal/usecase/appointment"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Log     zerolog.Logger
	Metrics *metrics.Metrics

	Audit    *audit.Dispatcher
	Notifier *notify.Dispatcher
	Hours    *domain.WorkingHoursResolver
	Jobs     *jobs.Runner

	PublicLimiter  ratelimit.Limiter
	InboundLimiter ratelimit.Limiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(d.DB)
	auditLogger := audit.New(d.DB)
	tz := d.Config.DefaultTimezone

	// ======================================================
	// 🧠 USE CASES: APPOINTMENTS
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, d.Hours, tz)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		d.Hours,
		d.Audit,
		d.Notifier,
		d.Metrics,
		tz,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo, tz)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, d.Audit, d.Metrics)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, d.Audit, d.Metrics)
	noShowUC := ucAppointment.NewMarkNoShow(appointmentRepo, d.Audit, d.Metrics)

	inboundUC := ucAppointment.NewHandleInboundMessage(
		appointmentRepo,
		d.Audit,
		d.Notifier,
		d.Metrics,
		d.Log,
		tz,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(sqlPinger(d.DB))
	meHandler := handlers.NewMeHandler(appointmentRepo)

	appointmentHandler := handlers.NewAppointmentHandler(
		availabilityUC,
		createAppointmentUC,
		listAppointmentsUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		noShowUC,
	)

	workingHoursHandler := handlers.NewWorkingHoursHandler(scheduleRepo, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogger)
	publicHandler := handlers.NewPublicHandler(scheduleRepo, availabilityUC, createAppointmentUC)
	webhookHandler := handlers.NewWebhookHandler(inboundUC, d.InboundLimiter, d.Log)
	jobsHandler := handlers.NewJobsHandler(d.Jobs)

	// ======================================================
	// 🩺 OPERAÇÃO
	// ======================================================
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	internal := r.Group("/internal/jobs")
	internal.Use(middleware.SharedSecret("X-Cron-Secret", d.Config.CronSecret, false))
	{
		internal.POST("/reminders", jobsHandler.Reminders)
		internal.POST("/complete", jobsHandler.Complete)
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		if d.PublicLimiter != nil {
			publicAPI.Use(middleware.RateLimit(d.PublicLimiter, d.Log))
		}
		{
			publicAPI.GET("/:slug/providers", publicHandler.ListProviders)
			publicAPI.GET("/:slug/providers/:providerId/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// 📩 WEBHOOK DE MENSAGENS
		// ------------------------------
		webhooks := api.Group("/webhooks")
		webhooks.Use(middleware.SharedSecret("X-Webhook-Secret", d.Config.WebhookSecret, true))
		{
			webhooks.POST("/inbound", webhookHandler.Inbound)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(d.Config.JWTSecret))
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/providers/:providerId/availability", appointmentHandler.Availability)
			secured.GET("/providers/:providerId/working-hours", workingHoursHandler.Get)
			secured.PUT("/providers/:providerId/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}

// sqlPinger returns nil when the pool is unavailable, which turns the health check
// into a liveness probe only.
func sqlPinger(db *gorm.DB) handlers.Pinger {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil
	}
	return sqlDB
}
