package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/create_booking"
	createFieldHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/create_field"
	getAvailableSlotsHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/get_booking"
	getFieldHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/get_field"
	getOwnerBookingsHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/get_owner_bookings"
	getOwnerStatsHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/get_owner_stats"
	getPlayerBookingsHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/get_player_bookings"
	getPlayerStatsHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/get_player_stats"
	listFieldsHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/list_fields"
	updateBookingStatusHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/update_booking_status"
	updateFieldHandler "github.com/m04kA/SMC-FieldBookingService/internal/api/handlers/update_field"
	"github.com/m04kA/SMC-FieldBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FieldBookingService/internal/config"
	"github.com/m04kA/SMC-FieldBookingService/internal/infra/events"
	"github.com/m04kA/SMC-FieldBookingService/internal/infra/locker"
	bookingRepo "github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/booking"
	fieldRepo "github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/field"
	"github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/memory"
	bookingsService "github.com/m04kA/SMC-FieldBookingService/internal/service/bookings"
	fieldsService "github.com/m04kA/SMC-FieldBookingService/internal/service/fields"
	createBookingUC "github.com/m04kA/SMC-FieldBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-FieldBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-FieldBookingService/internal/validator"
	"github.com/m04kA/SMC-FieldBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FieldBookingService/pkg/logger"
	"github.com/m04kA/SMC-FieldBookingService/pkg/metrics"
	"github.com/m04kA/SMC-FieldBookingService/pkg/txmanager"
)

const (
	storageMemory  = "memory"
	configPathEnv  = "FIELDBOOKING_CONFIG"
	defaultCfgPath = "config.toml"
)

// bookingStore объединяет контракты всех потребителей репозитория бронирований
type bookingStore interface {
	createBookingUC.BookingRepository
	getAvailableSlotsUC.BookingRepository
	bookingsService.BookingRepository
	fieldsService.StatsRepository
}

// fieldStore объединяет контракты всех потребителей репозитория полей
type fieldStore interface {
	createBookingUC.FieldRepository
	fieldsService.FieldRepository
}

func main() {
	cfgPath := os.Getenv(configPathEnv)
	if cfgPath == "" {
		cfgPath = defaultCfgPath
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(cfgPath)
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

	log.Info("Starting SMC-FieldBookingService...")
	log.Info("Configuration loaded from %s", cfgPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var (
		bookings bookingStore
		fields   fieldStore
		txMgr    createBookingUC.TransactionManager
	)

	if cfg.Storage.Driver == storageMemory {
		store := memory.New()
		bookings = store.Bookings()
		fields = store.Fields()
		txMgr = store.TxManager()
		log.Warn("Using in-memory storage, data will be lost on restart")
	} else {
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

		// Без метрик обёртка только пробрасывает запросы
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)

		bookings = bookingRepo.NewRepository(wrappedDB)
		fields = fieldRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB, txmanager.WithMaxRetries(cfg.Database.MaxTxRetries))
	}

	// Блокировка слотов
	var slotLocker createBookingUC.SlotLocker = locker.NopLocker{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("Failed to connect to redis: %v", err)
		}
		cancel()

		slotLocker = locker.NewRedisLocker(redisClient, cfg.Redis.LockTTLDuration(), cfg.Redis.LockWaitDuration())
		log.Info("Slot locking via redis enabled (addr=%s)", cfg.Redis.Addr)
	}

	// Публикация событий
	var publisher createBookingUC.EventPublisher = events.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		rabbit, err := events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		defer rabbit.Close()

		publisher = rabbit
		log.Info("Booking events publishing enabled (exchange=%s)", cfg.RabbitMQ.Exchange)
	}

	// Учет исходов бронирования
	var observer createBookingUC.OutcomeObserver
	if metricsCollector != nil {
		observer = metricsCollector
	}

	// Правила бронирования
	rules := validator.Rules{
		AllowedDurations:    cfg.Booking.AllowedDurations,
		EnforceOpeningHours: cfg.Booking.EnforceOpeningHours,
		OpeningTime:         cfg.Booking.Opening(),
		ClosingTime:         cfg.Booking.Closing(),
	}
	bookingValidator := validator.NewValidator(rules, &validator.RealTimeProvider{})

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookings, fields, publisher, log)
	fieldSvc := fieldsService.NewService(
		fields,
		bookings,
		cfg.Booking.Opening(),
		cfg.Booking.Closing(),
		&validator.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookings,
		fields,
		bookingValidator,
		slotLocker,
		publisher,
		txMgr,
		observer,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(bookings, fields, rules, nil, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := updateBookingStatusHandler.NewHandler(bookingSvc, updateBookingStatusHandler.ActionConfirm, log)
	completeBooking := updateBookingStatusHandler.NewHandler(bookingSvc, updateBookingStatusHandler.ActionComplete, log)
	getPlayerBookings := getPlayerBookingsHandler.NewHandler(bookingSvc, log)
	getPlayerStats := getPlayerStatsHandler.NewHandler(bookingSvc, log)
	getOwnerBookings := getOwnerBookingsHandler.NewHandler(bookingSvc, log)
	listFields := listFieldsHandler.NewHandler(fieldSvc, log)
	listOwnerFields := listFieldsHandler.NewOwnerHandler(fieldSvc, log)
	getField := getFieldHandler.NewHandler(fieldSvc, log)
	createField := createFieldHandler.NewHandler(fieldSvc, log)
	updateField := updateFieldHandler.NewHandler(fieldSvc, log)
	getOwnerStats := getOwnerStatsHandler.NewHandler(fieldSvc, log)

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if metricsCollector != nil {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/fields", listFields.Handle).Methods(http.MethodGet)
	api.HandleFunc("/fields/{fieldId}", getField.Handle).Methods(http.MethodGet)
	api.HandleFunc("/fields/{fieldId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/players/me/bookings", getPlayerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/players/me/stats", getPlayerStats.Handle).Methods(http.MethodGet)

	// --- Управление полями (для владельцев) ---
	protected.HandleFunc("/fields", createField.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/fields/{fieldId}", updateField.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/owners/me/fields", listOwnerFields.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/owners/me/bookings", getOwnerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/owners/me/stats", getOwnerStats.Handle).Methods(http.MethodGet)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

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

	log.Info("Server stopped gracefully")
}
