package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dverano/villadesk/internal/audit"
	"github.com/dverano/villadesk/internal/cache"
	"github.com/dverano/villadesk/internal/email"
	"github.com/dverano/villadesk/internal/gridstore"
	"github.com/dverano/villadesk/internal/handlers"
	"github.com/dverano/villadesk/internal/session"
	"github.com/dverano/villadesk/libs/config"
	"github.com/dverano/villadesk/libs/httpx"
	"github.com/dverano/villadesk/libs/kafkax"
	otelx "github.com/dverano/villadesk/libs/otel"
	"github.com/dverano/villadesk/libs/runtime"
)

func main() {
	service := config.String("SERVICE_NAME", "villadesk")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	secret, err := config.RequiredString("AUTH_SECRET")
	if err != nil {
		panic(err)
	}
	passcodeHash, err := config.RequiredString("OPERATOR_PASSCODE_HASH")
	if err != nil {
		panic(err)
	}
	folderID := config.String("WORKBOOK_FOLDER_ID", "")

	var store gridstore.Store = gridstore.NewXLSXStore(config.String("GRID_STORE_DIR", "./data"))
	store = gridstore.NewRetryingLister(store, gridstore.RetryPolicy{
		MaxRetries: config.Int("LIST_MAX_RETRIES", 3),
		BaseDelay:  config.Duration("LIST_RETRY_BASE_DELAY", 2*time.Second),
	}, logger)

	cacheTTL := config.Duration("FOLDER_CACHE_TTL", 5*time.Minute)
	var folderCache cache.FolderCache = cache.NewMemory(cacheTTL)
	var rdb *redis.Client
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		folderCache = cache.NewRedis(rdb, cacheTTL, "villadesk:folders", logger)
	}

	var recorder audit.Recorder = audit.NewMemRecorder()
	brokers := config.String("KAFKA_BROKERS", "")
	if brokers != "" {
		kafkaRecorder := audit.NewKafkaRecorder(brokers, config.String("KAFKA_AUDIT_TOPIC", "villadesk.audit.v1"), logger)
		defer func() { _ = kafkaRecorder.Close() }()
		recorder = kafkaRecorder
	}

	var sender email.Sender
	if host := config.String("SMTP_HOST", ""); host != "" {
		sender = email.NewSMTPSender(email.Config{
			Host:     host,
			Port:     config.String("SMTP_PORT", "587"),
			Username: config.String("SMTP_USERNAME", ""),
			Password: config.String("SMTP_PASSWORD", ""),
			From:     config.String("SMTP_FROM", ""),
		})
	}

	sessions := session.NewManager(session.Caps{
		ActivityLog: config.Int("ACTIVITY_LOG_CAP", 200),
		EditHistory: config.Int("EDIT_HISTORY_CAP", 1000),
		Backups:     config.Int("BACKUP_CAP", 50),
	})

	// 1-based header row of the calendar layout; data starts on the next row.
	headerRow := config.Int("CALENDAR_HEADER_ROW", 13)
	headerRowIndex := headerRow - 1

	authHandler := handlers.NewAuthHandler(passcodeHash, secret, config.Duration("SESSION_TTL", 12*time.Hour), sessions, logger)
	clientsHandler := handlers.NewClientsHandler(store, folderCache, folderID, logger)
	calendarHandler := handlers.NewCalendarHandler(store, headerRowIndex, recorder, logger)
	templatesHandler := handlers.NewTemplatesHandler(store, recorder, logger)
	backupHandler := handlers.NewBackupHandler(store, recorder, logger)
	notifyHandler := handlers.NewNotifyHandler(sender, recorder, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(store, headerRowIndex, logger)
	stateHandler := handlers.SessionStateHandler{}

	readyChecks := []runtime.ReadyCheck{
		{Name: "grid-store", Check: func(ctx context.Context) error {
			_, err := store.ListWorkbooks(ctx, folderID)
			return err
		}},
	}
	if rdb != nil {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "redis", Check: cache.ReadyCheck(rdb)})
	}
	if brokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}
	mux := runtime.NewBaseMuxWithReady(readyChecks...)

	mux.HandleFunc("/api/v1/auth/login", authHandler.Login)

	protected := http.NewServeMux()
	protected.HandleFunc("/api/v1/auth/credentials", authHandler.UploadCredentials)
	protected.HandleFunc("/api/v1/clients", clientsHandler.List)
	protected.HandleFunc("/api/v1/clients/profile", clientsHandler.Profile)
	protected.HandleFunc("/api/v1/clients/calendars", clientsHandler.Calendars)
	protected.HandleFunc("/api/v1/calendar/rows", calendarHandler.Rows)
	protected.HandleFunc("/api/v1/calendar/rows/create", calendarHandler.Create)
	protected.HandleFunc("/api/v1/calendar/rows/update", calendarHandler.Update)
	protected.HandleFunc("/api/v1/calendar/rows/delete", calendarHandler.Delete)
	protected.HandleFunc("/api/v1/calendar/bulk", calendarHandler.Bulk)
	protected.HandleFunc("/api/v1/calendar/export.csv", calendarHandler.ExportCSV)
	protected.HandleFunc("/api/v1/templates", templatesHandler.List)
	protected.HandleFunc("/api/v1/templates/delete", templatesHandler.Delete)
	protected.HandleFunc("/api/v1/templates/apply", templatesHandler.Apply)
	protected.HandleFunc("/api/v1/backups", backupHandler.List)
	protected.HandleFunc("/api/v1/backups/restore", backupHandler.Restore)
	protected.HandleFunc("/api/v1/notifications/email", notifyHandler.SendEmail)
	protected.HandleFunc("/api/v1/analytics/monthly", analyticsHandler.Monthly)
	protected.HandleFunc("/api/v1/session/activity", stateHandler.Activity)
	protected.HandleFunc("/api/v1/session/history", stateHandler.History)
	mux.Handle("/api/v1/", authHandler.RequireSession(protected))

	limiter := httpx.NewRateLimiter(config.Int("RATE_LIMIT", 120), time.Minute)
	var limit httpx.Middleware = limiter.Middleware()
	if rdb != nil {
		limit = httpx.NewRedisRateLimiter(rdb, config.Int("RATE_LIMIT", 120), time.Minute, "villadesk:rl").Middleware(logger, true)
	}

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(4<<20),
		limit,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: kafkax.SplitBrokers(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "villadesk")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
