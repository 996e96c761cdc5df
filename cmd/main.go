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
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	bookingStatsHandler "github.com/m04kA/salon-booking/internal/api/handlers/booking_stats"
	createBookingHandler "github.com/m04kA/salon-booking/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/salon-booking/internal/api/handlers/delete_booking"
	editBookingHandler "github.com/m04kA/salon-booking/internal/api/handlers/edit_booking"
	exportBookingsHandler "github.com/m04kA/salon-booking/internal/api/handlers/export_bookings"
	getAvailableSlotsHandler "github.com/m04kA/salon-booking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/salon-booking/internal/api/handlers/get_booking"
	healthHandler "github.com/m04kA/salon-booking/internal/api/handlers/health"
	listBookingsHandler "github.com/m04kA/salon-booking/internal/api/handlers/list_bookings"
	manageClosuresHandler "github.com/m04kA/salon-booking/internal/api/handlers/manage_closures"
	servicesHandler "github.com/m04kA/salon-booking/internal/api/handlers/services"
	updateBookingStatusHandler "github.com/m04kA/salon-booking/internal/api/handlers/update_booking_status"
	"github.com/m04kA/salon-booking/internal/api/middleware"
	"github.com/m04kA/salon-booking/internal/config"
	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/infra/cache/availability"
	bookingRepo "github.com/m04kA/salon-booking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/salon-booking/internal/infra/storage/catalog"
	"github.com/m04kA/salon-booking/internal/infra/storage/memory"
	bookingsService "github.com/m04kA/salon-booking/internal/service/bookings"
	catalogService "github.com/m04kA/salon-booking/internal/service/catalog"
	createBookingUC "github.com/m04kA/salon-booking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/salon-booking/internal/usecase/get_available_slots"
	"github.com/m04kA/salon-booking/pkg/dbmetrics"
	"github.com/m04kA/salon-booking/pkg/keylock"
	"github.com/m04kA/salon-booking/pkg/logger"
	"github.com/m04kA/salon-booking/pkg/metrics"
	"github.com/m04kA/salon-booking/pkg/psqlbuilder"
	"github.com/m04kA/salon-booking/pkg/txmanager"
	"github.com/m04kA/salon-booking/pkg/types"
)

// bookingStore реестр бронирований (SQL или в памяти)
type bookingStore interface {
	bookingsService.BookingRepository
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

type availabilityCache interface {
	Get(ctx context.Context, date types.Date) (*domain.DayAvailability, bool, error)
	Generation(ctx context.Context, date types.Date) (int64, error)
	Set(ctx context.Context, day *domain.DayAvailability, generation int64) error
	Invalidate(ctx context.Context, date types.Date) error
}

type transactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type storage struct {
	bookings  bookingStore
	closures  catalogService.ClosureRepository
	services  catalogService.ServiceRepository
	txManager transactionManager
	ping      healthHandler.Check
	close     func()
}

func main() {
	configPath := os.Getenv("BOOKING_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting salon-booking...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(cfg.Database, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Кэш доступности
	var cache availabilityCache = availability.NoopCache{}
	optionalChecks := map[string]healthHandler.Check{}

	if cfg.Cache.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		defer redisClient.Close()

		redisCache := availability.NewRedisCache(redisClient, time.Duration(cfg.Cache.TTLSeconds)*time.Second, cfg.Cache.KeyPrefix)
		if err := redisCache.Ping(context.Background()); err != nil {
			// Кэш не обязателен: промахи уходят в хранилище
			log.Warn("Redis is unavailable at %s, continuing without cache until it recovers: %v", cfg.Cache.Addr, err)
		}
		cache = redisCache
		optionalChecks["cache"] = redisCache.Ping
		log.Info("Availability cache enabled (addr=%s, ttl=%ds)", cfg.Cache.Addr, cfg.Cache.TTLSeconds)
	}

	// Шаблон слотов
	defaultSlots, _ := cfg.Catalog.DefaultSlots()
	weekdaySlots, _ := cfg.Catalog.WeekdaySlots()
	location, _ := cfg.Catalog.Location()
	initialStatus, _ := cfg.Booking.Status()

	// Инициализируем сервисы
	catalogSvc := catalogService.NewService(
		catalogService.Schedule{
			DefaultSlots:        defaultSlots,
			Weekdays:            weekdaySlots,
			SlotDurationMinutes: cfg.Catalog.SlotDurationMinutes,
		},
		store.closures,
		store.services,
		cache,
		log,
	)

	// Одна блокировка на процесс: создание и перенос бронирований сериализуются по паре (дата, слот)
	slotLocks := keylock.New()

	bookingSvc := bookingsService.NewService(
		store.bookings,
		catalogSvc,
		store.txManager,
		slotLocks,
		cache,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		catalogSvc,
		store.bookings,
		store.txManager,
		slotLocks,
		cache,
		metricsCollector,
		createBookingUC.Policy{
			InitialStatus: initialStatus,
			HorizonDays:   cfg.Booking.HorizonDays,
			Location:      location,
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		catalogSvc,
		store.bookings,
		cache,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	editBooking := editBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	exportBookings := exportBookingsHandler.NewHandler(bookingSvc, log)
	bookingStats := bookingStatsHandler.NewHandler(bookingSvc, log)
	closures := manageClosuresHandler.NewHandler(catalogSvc, log)
	services := servicesHandler.NewHandler(catalogSvc, log)
	health := healthHandler.NewHandler(map[string]healthHandler.Check{"storage": store.ping}, optionalChecks, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// Свободные слоты на дату
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Прайс-лист
	api.HandleFunc("/services", services.ListActive).Methods(http.MethodGet)

	// Создание бронирования (с ограничением частоты по IP)
	var createHandler http.Handler = http.HandlerFunc(createBooking.Handle)
	if cfg.RateLimit.Enabled {
		createHandler = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst).Middleware(createHandler)
		log.Info("Rate limit for booking submission: %d/min, burst %d", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	api.Handle("/bookings", createHandler).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Secret header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Secret))

	// --- Бронирования ---
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/export", exportBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id:[0-9]+}", editBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{id:[0-9]+}", deleteBooking.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/bookings/{id:[0-9]+}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/stats", bookingStats.Handle).Methods(http.MethodGet)

	// --- Закрытия слотов ---
	admin.HandleFunc("/closures", closures.List).Methods(http.MethodGet)
	admin.HandleFunc("/closures", closures.Create).Methods(http.MethodPost)
	admin.HandleFunc("/closures/{id:[0-9]+}", closures.Delete).Methods(http.MethodDelete)

	// --- Прайс-лист ---
	admin.HandleFunc("/services", services.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/services", services.Create).Methods(http.MethodPost)
	admin.HandleFunc("/services/{id:[0-9]+}", services.Update).Methods(http.MethodPut)
	admin.HandleFunc("/services/{id:[0-9]+}", services.Delete).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// openStorage открывает хранилище по driver и при необходимости создает схему
func openStorage(cfg config.DatabaseConfig, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Driver == config.DriverMemory {
		ledger := memory.NewLedger()
		catalog := memory.NewCatalog()
		log.Warn("Using in-memory storage: bookings are lost on restart")

		return &storage{
			bookings:  ledger,
			closures:  catalog,
			services:  catalog,
			txManager: txmanager.NoopManager{},
			ping:      func(context.Context) error { return nil },
			close:     func() {},
		}, nil
	}

	dialect, err := psqlbuilder.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	isolation := sql.LevelReadCommitted
	if dialect == psqlbuilder.DialectSQLite {
		// Один писатель: SQLite сериализует запись на уровне файла
		db.SetMaxOpenConns(1)
		isolation = sql.LevelDefault
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to %s database", cfg.Driver)

	wrappedDB := dbmetrics.WrapWithDefault(db, m, stopCh)

	bookings := bookingRepo.NewRepository(wrappedDB, dialect)
	catalog := catalogRepo.NewRepository(wrappedDB, dialect)

	if cfg.Migrate || dialect == psqlbuilder.DialectSQLite {
		if err := bookings.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		if err := catalog.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Database schema is up to date")
	}

	return &storage{
		bookings:  bookings,
		closures:  catalog,
		services:  catalog,
		txManager: txmanager.NewTransactionManager(wrappedDB, isolation),
		ping:      wrappedDB.PingContext,
		close:     func() { db.Close() },
	}, nil
}
