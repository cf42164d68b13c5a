package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookAppointmentHandler "github.com/m04kA/SMC-CalendarBridge/internal/api/handlers/book_appointment"
	getFreeSlotsHandler "github.com/m04kA/SMC-CalendarBridge/internal/api/handlers/get_free_slots"
	healthHandler "github.com/m04kA/SMC-CalendarBridge/internal/api/handlers/health"
	"github.com/m04kA/SMC-CalendarBridge/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarBridge/internal/config"
	"github.com/m04kA/SMC-CalendarBridge/internal/integrations/leadconnector"
	bookAppointmentUC "github.com/m04kA/SMC-CalendarBridge/internal/usecase/book_appointment"
	getFreeSlotsUC "github.com/m04kA/SMC-CalendarBridge/internal/usecase/get_free_slots"
	"github.com/m04kA/SMC-CalendarBridge/pkg/logger"
	"github.com/m04kA/SMC-CalendarBridge/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CalendarBridge...")

	// Метрики (nil, если выключены: все методы nil-safe)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Политика слотов
	policy, err := cfg.Availability.SlotPolicy()
	if err != nil {
		log.Fatal("Failed to build slot policy: %v", err)
	}

	// Клиент удалённого сервиса расписаний
	schedulingClient := leadconnector.NewClient(leadconnector.Config{
		BaseURL:    cfg.LeadConnector.BaseURL,
		APIVersion: cfg.LeadConnector.APIVersion,
		Token:      cfg.LeadConnector.Token,
		CalendarID: cfg.LeadConnector.CalendarID,
		LocationID: cfg.LeadConnector.LocationID,
		Timeout:    time.Duration(cfg.LeadConnector.Timeout) * time.Second,
		// 0 = предел клиента по умолчанию
		MaxResponseBytes: cfg.LeadConnector.MaxResponseBytes,
	}, log, metricsCollector)
	log.Info("LeadConnector client initialized (base_url=%s, calendar_id=%s, timeout=%ds)",
		cfg.LeadConnector.BaseURL, cfg.LeadConnector.CalendarID, cfg.LeadConnector.Timeout)

	// Инициализируем use cases
	getFreeSlotsUseCase := getFreeSlotsUC.NewUseCase(
		schedulingClient,
		policy,
		getFreeSlotsUC.Options{
			Timezone:           cfg.Availability.Timezone,
			DefaultDays:        cfg.Availability.DefaultDays,
			MaxSlots:           cfg.Availability.MaxSlots,
			DiagnosticMaxSlots: cfg.Availability.DiagnosticMaxSlots,
			AllowUnfiltered:    cfg.Availability.AllowUnfiltered,
		},
		metricsCollector,
		log,
	)
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(schedulingClient, cfg.Booking.DefaultTitle, log)

	// Инициализируем handlers
	health := healthHandler.NewHandler()
	getFreeSlots := getFreeSlotsHandler.NewHandler(getFreeSlotsUseCase, log)
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)

	// Настраиваем роутер
	r := newRouter(health.Handle, getFreeSlots.Handle, bookAppointment.Handle)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("HTTP metrics middleware enabled, endpoint exposed at %s", cfg.Metrics.Path)
	}

	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()

	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(
			cfg.RateLimit.RPS,
			cfg.RateLimit.Burst,
			cfg.RateLimit.TrustedProxies,
			time.Duration(cfg.RateLimit.IdleTTL)*time.Second,
		)
		if err != nil {
			log.Fatal("Failed to configure rate limiter: %v", err)
		}
		go limiter.Run(limiterCtx)
		r.Use(limiter.Middleware(log))
		log.Info("Rate limiting enabled (rps=%.2f, burst=%d, trusted_proxies=%d)",
			cfg.RateLimit.RPS, cfg.RateLimit.Burst, len(cfg.RateLimit.TrustedProxies))
	}

	// CORS и логирование снаружи роутера: preflight OPTIONS не совпадает ни с одним маршрутом
	var handler http.Handler = r
	handler = middleware.CORS(cfg.CORS.AllowedOrigins)(handler)
	handler = middleware.RequestLogger(log)(handler)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stopLimiter()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
