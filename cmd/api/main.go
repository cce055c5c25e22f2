package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backup"
	"github.com/BruksfildServices01/studio-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/studio-manager/internal/db"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/metrics"
	"github.com/BruksfildServices01/studio-manager/internal/routes"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	ucAppointment "github.com/BruksfildServices01/studio-manager/internal/usecase/appointment"
	ucClient "github.com/BruksfildServices01/studio-manager/internal/usecase/client"
)

func main() {

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	appLog := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "studio-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// STORAGE
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	st, err := store.Open(ctx, db, store.WithLogger(appLog))
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	m := metrics.New()

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, appLog)
	defer auditDispatcher.Close()

	var publisher events.Publisher = events.Nop{}
	if cfg.RedisURL != "" {
		rp, err := events.NewRedis(cfg.RedisURL, events.DefaultChannel)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		if err := rp.Ping(ctx); err != nil {
			appLog.Warn("redis unreachable at start-up", logger.Fields{"error": err})
		}
		publisher = rp
	}
	defer publisher.Close()

	var messenger ucClient.Messenger = ucClient.LogMessenger{Log: appLog}
	if cfg.WhatsAppEnabled() {
		messenger = ucClient.NewWhatsAppMessenger(cfg.WhatsAppAPIURL, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppToken)
		appLog.Info("questionnaire delivery via whatsapp", nil)
	}

	scheduler := ucAppointment.NewSessionScheduler(time.Now, appLog, m)
	defer scheduler.Stop()

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, cfg, routes.Infra{
		Store:       st,
		AuditLogger: auditLogger,
		Audit:       auditDispatcher,
		Events:      publisher,
		Metrics:     m,
		Log:         appLog,
		Scheduler:   scheduler,
		Messenger:   messenger,
	})

	// Timers of sessions still running when the process stopped.
	if _, err := scheduler.Restore(ctx, st); err != nil {
		appLog.Error("session timers not restored", logger.Fields{"error": err})
	}

	// ======================================================
	// BACKUP
	// ======================================================
	if cfg.BackupEnabled {
		sink, err := backup.NewSink(cfg)
		if err != nil {
			log.Fatalf("invalid backup configuration: %v", err)
		}
		worker := backup.NewWorker(st, sink, cfg.BackupInterval, appLog, m)
		go worker.Run(ctx)
		appLog.Info("backup worker started", logger.Fields{
			"sink":     sink.String(),
			"interval": cfg.BackupInterval.String(),
		})
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("server running", logger.Fields{"addr": cfg.Addr()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("graceful shutdown failed", logger.Fields{"error": err})
	}
}
