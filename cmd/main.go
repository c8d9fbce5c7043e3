package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	createBookingHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/create_booking"
	getAdminStatsHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/get_admin_stats"
	getBookingHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/get_booking"
	getServicesHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/get_services"
	getTechnicianByUserHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/get_technician_by_user"
	getTechniciansHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/get_technicians"
	healthHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/health"
	listBookingsHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/list_bookings"
	pushChannelHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/push_channel"
	updateBookingHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/update_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/update_booking_status"
	verifyTechnicianHandler "github.com/m04kA/SMC-ServiceConnect/internal/api/handlers/verify_technician"
	"github.com/m04kA/SMC-ServiceConnect/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceConnect/internal/config"
	"github.com/m04kA/SMC-ServiceConnect/internal/infra/push"
	bookingRepo "github.com/m04kA/SMC-ServiceConnect/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-ServiceConnect/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ServiceConnect/internal/integrations/mailer"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/access"
	bookingsService "github.com/m04kA/SMC-ServiceConnect/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-ServiceConnect/internal/service/catalog"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/matching"
	createBookingUC "github.com/m04kA/SMC-ServiceConnect/internal/usecase/create_booking"
	updateBookingUC "github.com/m04kA/SMC-ServiceConnect/internal/usecase/update_booking"
	"github.com/m04kA/SMC-ServiceConnect/pkg/auth"
	"github.com/m04kA/SMC-ServiceConnect/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceConnect/pkg/logger"
	"github.com/m04kA/SMC-ServiceConnect/pkg/metrics"
	"github.com/m04kA/SMC-ServiceConnect/pkg/txmanager"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "path to config.toml")
	pflag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-ServiceConnect...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка только проксирует запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	// Шина booking:update и push-хаб
	wmLogger := push.NewWatermillLogger(log)
	bus := push.NewBus(wmLogger)
	publisher := push.NewPublisher(bus)
	hub := push.NewHub(push.Config{
		SendBuffer:   cfg.Push.SendBuffer,
		WriteTimeout: time.Duration(cfg.Push.WriteTimeout) * time.Second,
		PongTimeout:  time.Duration(cfg.Push.PongTimeout) * time.Second,
	}, metricsCollector, log)

	busRouter, err := push.NewRouter(bus, hub, wmLogger)
	if err != nil {
		log.Fatal("Failed to create event router: %v", err)
	}

	// Почта
	var bookingMailer createBookingUC.Mailer
	if cfg.Mail.Enabled {
		bookingMailer = mailer.NewSMTPMailer(mailer.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		}, log)
		log.Info("SMTP mailer enabled (host=%s, port=%d)", cfg.Mail.Host, cfg.Mail.Port)
	} else {
		bookingMailer = mailer.NewLogMailer(log)
	}

	// Сервисы
	guard := access.NewGuard(catalogRepository, func(err error) bool {
		return errors.Is(err, catalogRepo.ErrTechnicianNotFound)
	})
	matcher := matching.NewEngine(catalogRepository)
	bookingSvc := bookingsService.NewService(bookingRepository, guard, log)
	catalogSvc := catalogService.NewService(catalogRepository, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		matcher,
		txMgr,
		publisher,
		bookingMailer,
		metricsCollector,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		guard,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)

	// Handlers
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	health := healthHandler.NewHandler(wrappedDB, log)
	getServices := getServicesHandler.NewHandler(catalogSvc, log)
	getTechnicians := getTechniciansHandler.NewHandler(catalogSvc, log)
	getTechnicianByUser := getTechnicianByUserHandler.NewHandler(catalogSvc, log)
	verifyTechnician := verifyTechnicianHandler.NewHandler(catalogSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(updateBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	getAdminStats := getAdminStatsHandler.NewHandler(bookingSvc, log)
	pushChannel := pushChannelHandler.NewHandler(verifier, guard, hub, cfg.Push.AllowedOrigins, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	r.HandleFunc("/api/health", health.Handle).Methods(http.MethodGet)

	// push-канал проверяет токен сам: браузер передаёт его в query
	r.HandleFunc(cfg.Push.Path, pushChannel.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/services", getServices.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(verifier, log))

	// --- Мастера ---
	protected.HandleFunc("/technicians", getTechnicians.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/technicians/by-user/{userId}", getTechnicianByUser.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/technicians/{id}/approve", verifyTechnician.HandleApprove).Methods(http.MethodPost)
	protected.HandleFunc("/technicians/{id}/reject", verifyTechnician.HandleReject).Methods(http.MethodPost)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)

	// --- Администратор ---
	protected.HandleFunc("/admin/stats", getAdminStats.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})

	g.Go(func() error {
		return busRouter.Run(gctx)
	})

	g.Go(func() error {
		// gochannel не хранит сообщения без подписчиков, поэтому ждём роутер
		select {
		case <-busRouter.Running():
		case <-gctx.Done():
			return nil
		}

		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		// Останавливаем сбор метрик connection pool
		close(stopMetricsCh)

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Service stopped with error: %v", err)
	}

	if err := bus.Close(); err != nil {
		log.Warn("Failed to close event bus: %v", err)
	}

	log.Info("Server stopped gracefully")
}
