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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createAppointmentHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/create_appointment"
	createBlackoutHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/create_blackout"
	deleteBlackoutHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/delete_blackout"
	getAppointmentHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/get_availability"
	getClientAppointmentsHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/get_client_appointments"
	getDayScheduleHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/get_day_schedule"
	getDueRemindersHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/get_due_reminders"
	getSettingsHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/get_settings"
	getWorkingHoursHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/get_working_hours"
	listBlackoutsHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/list_blackouts"
	transitionAppointmentHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/transition_appointment"
	updateSettingsHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/update_settings"
	updateWorkingHoursHandler "github.com/m04kA/LBS-SchedulingService/internal/api/handlers/update_working_hours"
	"github.com/m04kA/LBS-SchedulingService/internal/api/middleware"
	"github.com/m04kA/LBS-SchedulingService/internal/config"
	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/internal/events"
	"github.com/m04kA/LBS-SchedulingService/internal/infra/cache"
	"github.com/m04kA/LBS-SchedulingService/internal/infra/migrations"
	appointmentRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/schedule"
	catalogServiceClient "github.com/m04kA/LBS-SchedulingService/internal/integrations/catalogservice"
	clientServiceClient "github.com/m04kA/LBS-SchedulingService/internal/integrations/clientservice"
	notifyGatewayClient "github.com/m04kA/LBS-SchedulingService/internal/integrations/notifygateway"
	"github.com/m04kA/LBS-SchedulingService/internal/notifier"
	"github.com/m04kA/LBS-SchedulingService/internal/reminder"
	appointmentsService "github.com/m04kA/LBS-SchedulingService/internal/service/appointments"
	scheduleService "github.com/m04kA/LBS-SchedulingService/internal/service/schedule"
	createAppointmentUC "github.com/m04kA/LBS-SchedulingService/internal/usecase/create_appointment"
	getAvailabilityUC "github.com/m04kA/LBS-SchedulingService/internal/usecase/get_availability"
	processRemindersUC "github.com/m04kA/LBS-SchedulingService/internal/usecase/process_reminders"
	transitionAppointmentUC "github.com/m04kA/LBS-SchedulingService/internal/usecase/transition_appointment"
	"github.com/m04kA/LBS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/LBS-SchedulingService/pkg/logger"
	"github.com/m04kA/LBS-SchedulingService/pkg/metrics"
	"github.com/m04kA/LBS-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/LBS-SchedulingService/pkg/txmanager"
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

	log.Info("Starting LBS-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Накатываем миграции (если включены)
	if cfg.Database.RunMigrations {
		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to run migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Инициализируем кеш доступности (Redis опционален)
	// Интерфейс объявлен локально: при выключенном Redis подставляется заглушка
	type availabilityCache interface {
		Get(ctx context.Context, date time.Time, serviceID int64, addOnIDs []int64) ([]domain.Slot, bool)
		Set(ctx context.Context, date time.Time, serviceID int64, addOnIDs []int64, slots []domain.Slot)
		InvalidateDate(ctx context.Context, date time.Time)
	}
	var slotCache availabilityCache

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()

		slotCache = cache.NewAvailabilityCache(
			redisClient,
			time.Duration(cfg.Redis.TTLSeconds)*time.Second,
			log,
		)
		log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
	} else {
		slotCache = cache.NewNoopCache()
		log.Info("Availability cache disabled, all reads go to database")
	}

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.Catalog.URL,
		time.Duration(cfg.Catalog.Timeout)*time.Second,
		log,
	)
	clientClient := clientServiceClient.NewClient(
		cfg.ClientService.URL,
		time.Duration(cfg.ClientService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, ClientService=%s timeout=%ds)",
		cfg.Catalog.URL, cfg.Catalog.Timeout, cfg.ClientService.URL, cfg.ClientService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Диспетчер доменных событий и подписчик уведомлений
	dispatcher := events.NewDispatcher(10*time.Second, log)

	if cfg.Notifications.Enabled {
		notifyClient := notifyGatewayClient.NewClient(
			cfg.Notifications.URL,
			time.Duration(cfg.Notifications.Timeout)*time.Second,
			log,
		)
		notifySubscriber := notifier.NewSubscriber(notifyClient, log)
		dispatcher.Subscribe(notifySubscriber.Handle)
		log.Info("Notification subscriber registered (gateway=%s)", cfg.Notifications.URL)
	} else {
		log.Info("Notifications disabled")
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		scheduleRepository,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		slotCache,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		catalogClient,
		slotCache,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		catalogClient,
		clientClient,
		txMgr,
		dispatcher,
		slotCache,
		log,
	)
	transitionAppointmentUseCase := transitionAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		txMgr,
		dispatcher,
		slotCache,
		log,
	)
	processRemindersUseCase := processRemindersUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		txMgr,
		dispatcher,
		log,
	)

	// Фоновый воркер напоминаний
	var reminderWorker *reminder.Worker
	if cfg.Reminders.Enabled {
		reminderWorker = reminder.NewWorker(processRemindersUseCase, cfg.Reminders.Schedule, cfg.Reminders.BatchSize, log)
		if err := reminderWorker.Start(); err != nil {
			log.Fatal("Failed to start reminder worker: %v", err)
		}
	} else {
		log.Info("Reminder worker disabled")
	}

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	transitionAppointment := transitionAppointmentHandler.NewHandler(transitionAppointmentUseCase, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getDaySchedule := getDayScheduleHandler.NewHandler(appointmentsSvc, log)
	getDueReminders := getDueRemindersHandler.NewHandler(appointmentsSvc, log)
	getSettings := getSettingsHandler.NewHandler(scheduleSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(scheduleSvc, log)
	getWorkingHours := getWorkingHoursHandler.NewHandler(scheduleSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(scheduleSvc, log)
	listBlackouts := listBlackoutsHandler.NewHandler(scheduleSvc, &listBlackoutsHandler.RealTimeProvider{}, log)
	createBlackout := createBlackoutHandler.NewHandler(scheduleSvc, log)
	deleteBlackout := deleteBlackoutHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Auth)
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расчет доступных слотов на дату
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Недельное расписание работы
	api.HandleFunc("/schedule/working-hours", getWorkingHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// CLIENT ROUTES (требуют X-Client-Ref header)
	// ============================================================

	client := api.PathPrefix("").Subrouter()
	client.Use(middleware.RequireClient)

	// Создание записи
	client.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// История записей клиента
	client.HandleFunc("/clients/me/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Записи: клиент видит свои, админ - любые ---
	// Контроль доступа выполняется в обработчиках: админ проходит без
	// X-Client-Ref, клиент - только к своим записям

	// Получение записи по ID
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Переход записи по событию жизненного цикла
	api.HandleFunc("/appointments/{appointmentId}/transition", transitionAppointment.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin)

	// Расписание дня со всеми записями
	admin.HandleFunc("/schedule/day", getDaySchedule.Handle).Methods(http.MethodGet)

	// Предпросмотр очереди напоминаний
	admin.HandleFunc("/reminders/due", getDueReminders.Handle).Methods(http.MethodGet)

	// Политика бронирования
	admin.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	// Обновление рабочего дня недели
	admin.HandleFunc("/schedule/working-hours/{weekday}", updateWorkingHours.Handle).Methods(http.MethodPut)

	// Блокировки дат
	admin.HandleFunc("/schedule/blackouts", listBlackouts.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/schedule/blackouts", createBlackout.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/schedule/blackouts/{date}", deleteBlackout.Handle).Methods(http.MethodDelete)

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

	// Останавливаем воркер напоминаний
	if reminderWorker != nil {
		reminderWorker.Stop()
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
