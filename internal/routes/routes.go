package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/config"
	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/domain/finance"
	"github.com/BruksfildServices01/studio-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/handlers"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/metrics"
	"github.com/BruksfildServices01/studio-manager/internal/middleware"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/studio-manager/internal/usecase/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/usecase/catalog"
	ucClient "github.com/BruksfildServices01/studio-manager/internal/usecase/client"
)

// Infra are the long-lived singletons built by main. RegisterRoutes wires
// every use case on top of them.
type Infra struct {
	Store       *store.Store
	AuditLogger *audit.Logger
	Audit       *audit.Dispatcher
	Events      events.Publisher
	Metrics     *metrics.Metrics
	Log         logger.Logger
	Scheduler   *ucAppointment.SessionScheduler
	Messenger   ucClient.Messenger
	Now         func() time.Time
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, infra Infra) {
	if infra.Now == nil {
		infra.Now = time.Now
	}
	if infra.Log == nil {
		infra.Log = logger.Discard()
	}
	if infra.Metrics == nil {
		infra.Metrics = metrics.New()
	}
	if infra.Scheduler == nil {
		infra.Scheduler = ucAppointment.NewSessionScheduler(infra.Now, infra.Log, infra.Metrics)
	}
	if infra.Messenger == nil {
		infra.Messenger = ucClient.LogMessenger{Log: infra.Log}
	}
	loc := timezone.Location(cfg.Timezone)
	st := infra.Store

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestLogger(infra.Log),
		middleware.Observe(infra.Metrics),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ======================================================
	// 🔧 DOMÍNIO
	// ======================================================
	ledger := inventory.NewLedger(st, infra.Log)
	recorder := finance.NewRecorder(st, infra.Log, infra.Now)

	policy := domain.SessionPolicy{Mode: domain.PolicyFixed, Fixed: cfg.SessionFixedDuration()}
	if cfg.SessionPolicy == config.SessionPolicyService {
		policy.Mode = domain.PolicyService
	}

	// ======================================================
	// 🧠 USE CASES - APPOINTMENTS
	// ======================================================
	apDeps := ucAppointment.Deps{
		Store:    st,
		Audit:    infra.Audit,
		Events:   infra.Events,
		Metrics:  infra.Metrics,
		Log:      infra.Log,
		Now:      infra.Now,
		Location: loc,
	}

	createAppointmentUC := ucAppointment.NewCreateAppointment(apDeps)
	startSessionUC := ucAppointment.NewStartSession(apDeps, policy, infra.Scheduler)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		apDeps,
		ledger,
		recorder,
		infra.Scheduler,
		ucAppointment.RevenueOptions{
			AutoRecord:    cfg.AutoRecordRevenue,
			PaymentMethod: cfg.DefaultPaymentMethod,
			Platform:      cfg.BusinessName,
		},
	)
	updateStatusUC := ucAppointment.NewUpdateStatus(apDeps, ledger, policy, infra.Scheduler)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(apDeps, infra.Scheduler)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(st, loc)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(st, loc)
	daySlotsUC := ucAppointment.NewGetDaySlots(st, loc, infra.Now)

	infra.Scheduler.OnExpire(completeAppointmentUC.Expire)

	// ======================================================
	// 🧠 USE CASES - CLIENTES / CATÁLOGO
	// ======================================================
	clDeps := ucClient.Deps{
		Store:  st,
		Audit:  infra.Audit,
		Events: infra.Events,
		Log:    infra.Log,
		Now:    infra.Now,
	}
	signer := ucClient.NewLinkSigner(cfg.QuestionnaireSecret, cfg.QuestionnaireBaseURL, cfg.QuestionnaireTTL, infra.Now)
	answerUC := ucClient.NewAnswerQuestionnaire(clDeps, signer)

	cat := catalog.New(st, ledger, infra.Audit, infra.Events, infra.Log)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		st,
		createAppointmentUC,
		startSessionUC,
		completeAppointmentUC,
		updateStatusUC,
		cancelAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		daySlotsUC,
	)

	clientHandler := handlers.NewClientHandler(
		st,
		ucClient.NewRegisterClient(clDeps, cfg.ValidateEmailDomain),
		ucClient.NewUpdateClient(clDeps),
		ucClient.NewDeleteClient(clDeps),
		ucClient.NewSendQuestionnaire(clDeps, signer, infra.Messenger, cfg.BusinessName),
		answerUC,
	)

	serviceHandler := handlers.NewServiceHandler(st, cat)
	productHandler := handlers.NewProductHandler(st, cat, ledger)
	financeHandler := handlers.NewFinanceHandler(recorder, infra.Audit, loc)
	exchangeHandler := handlers.NewExchangeHandler(st, infra.Scheduler, infra.Audit, infra.Events, infra.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(infra.AuditLogger, loc)
	publicHandler := handlers.NewPublicHandler(st, answerUC, cfg.BusinessName)

	// ======================================================
	// 🩺 INFRA
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(infra.Metrics.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA (link da anamnese)
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(middleware.QuestionnaireToken(signer))
		{
			publicAPI.GET("/questionnaire/:id", publicHandler.GetQuestionnaire)
			publicAPI.POST("/questionnaire/:id", publicHandler.AnswerQuestionnaire)
		}

		// ------------------------------
		// CLIENTES
		// ------------------------------
		api.GET("/clients", clientHandler.List)
		api.POST("/clients", clientHandler.Create)
		api.GET("/clients/:id", clientHandler.Get)
		api.PUT("/clients/:id", clientHandler.Update)
		api.DELETE("/clients/:id", clientHandler.Delete)
		api.POST("/clients/:id/questionnaire/send", clientHandler.SendQuestionnaire)
		api.PUT("/clients/:id/questionnaire", clientHandler.AnswerQuestionnaire)

		// ------------------------------
		// SERVIÇOS / PRODUTOS
		// ------------------------------
		api.GET("/services", serviceHandler.List)
		api.POST("/services", serviceHandler.Create)
		api.GET("/services/:id", serviceHandler.Get)
		api.PUT("/services/:id", serviceHandler.Update)
		api.DELETE("/services/:id", serviceHandler.Delete)

		api.GET("/products", productHandler.List)
		api.POST("/products", productHandler.Create)
		api.GET("/products/:id", productHandler.Get)
		api.PUT("/products/:id", productHandler.Update)
		api.DELETE("/products/:id", productHandler.Delete)
		api.POST("/products/:id/stock", productHandler.AdjustStock)
		api.GET("/products/:id/movements", productHandler.Movements)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		api.POST("/appointments", appointmentHandler.Create)
		api.GET("/appointments", appointmentHandler.ListByDate)
		api.GET("/appointments/month", appointmentHandler.ListByMonth)
		api.GET("/appointments/slots", appointmentHandler.DaySlots)
		api.GET("/appointments/:id", appointmentHandler.Get)
		api.PATCH("/appointments/:id/start", appointmentHandler.Start)
		api.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
		api.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
		api.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)

		// ------------------------------
		// FINANCEIRO
		// ------------------------------
		api.GET("/finance/entries", financeHandler.List)
		api.POST("/finance/entries", financeHandler.Record)
		api.GET("/finance/summary", financeHandler.Summary)

		// ------------------------------
		// PLANILHA / AUDITORIA
		// ------------------------------
		api.GET("/export", exchangeHandler.Export)
		api.POST("/import", exchangeHandler.Import)

		api.GET("/audit-logs", auditLogsHandler.List)
	}
}
