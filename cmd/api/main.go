package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retailhr/hr-backend-go/internal/config"
	"github.com/retailhr/hr-backend-go/internal/domain/notification"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	appHTTP "github.com/retailhr/hr-backend-go/internal/handler/http"
	"github.com/retailhr/hr-backend-go/internal/pkg/cron"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
	"github.com/retailhr/hr-backend-go/internal/pkg/jwt"
	"github.com/retailhr/hr-backend-go/internal/pkg/messaging"
	"github.com/retailhr/hr-backend-go/internal/pkg/sse"
	"github.com/retailhr/hr-backend-go/internal/repository/cache"
	"github.com/retailhr/hr-backend-go/internal/repository/postgresql"
	attendanceService "github.com/retailhr/hr-backend-go/internal/service/attendance"
	"github.com/retailhr/hr-backend-go/internal/service/authz"
	calendarService "github.com/retailhr/hr-backend-go/internal/service/calendar"
	compoffService "github.com/retailhr/hr-backend-go/internal/service/compoff"
	expenseService "github.com/retailhr/hr-backend-go/internal/service/expense"
	leaveService "github.com/retailhr/hr-backend-go/internal/service/leave"
	notificationService "github.com/retailhr/hr-backend-go/internal/service/notification"
	overtimeService "github.com/retailhr/hr-backend-go/internal/service/overtime"
	salaryService "github.com/retailhr/hr-backend-go/internal/service/salary"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	loc := cfg.Location()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	txManager := postgresql.NewTxManager(db)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	storeRepo := postgresql.NewStoreRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	expenseRepo := postgresql.NewExpenseRepository(db)
	compOffRepo := postgresql.NewCompOffRepository(db)

	var calendarCache store.CalendarCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			slog.Warn("Redis unavailable, calendar cache disabled", "addr", cfg.Redis.Addr, "error", err)
			_ = rdb.Close()
		} else {
			defer rdb.Close()
			calendarCache = cache.NewCalendarCache(rdb, cfg.Redis.CalendarTTL)
		}
	}

	var publisher notification.Publisher
	if cfg.RabbitMQ.URL != "" {
		p, err := messaging.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, "retail-hr")
		if err != nil {
			slog.Warn("RabbitMQ unavailable, events stay in-process", "error", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	resolver := authz.NewStoreResolver(storeRepo)
	gate := authz.NewGate(resolver)

	notifSvc := notificationService.NewNotificationService(sse.NewHub(), publisher, notificationService.Config{})
	calendarSvc := calendarService.NewCalendarService(storeRepo, calendarCache, gate)
	compOffSvc := compoffService.NewCompOffService(compOffRepo, employeeRepo, calendarSvc, gate)
	attendanceSvc := attendanceService.NewAttendanceService(
		txManager,
		attendanceRepo,
		employeeRepo,
		storeRepo,
		calendarSvc,
		compOffSvc,
		gate,
		resolver,
		notifSvc,
		loc,
		attendanceService.BulkOptions{
			BatchSize:       cfg.Bulk.BatchSize,
			MaxAttempts:     cfg.Bulk.MaxAttempts,
			InitialInterval: cfg.Bulk.InitialInterval,
		},
	)
	leaveSvc := leaveService.NewLeaveService(txManager, leaveRepo, employeeRepo, attendanceRepo, calendarSvc, gate, resolver, notifSvc)
	salarySvc := salaryService.NewSalaryService(
		txManager,
		salaryRepo,
		employeeRepo,
		attendanceRepo,
		leaveRepo,
		overtimeRepo,
		expenseRepo,
		gate,
		resolver,
	)
	overtimeSvc := overtimeService.NewOvertimeService(txManager, overtimeRepo, employeeRepo, salarySvc, gate, resolver, notifSvc)
	expenseSvc := expenseService.NewExpenseService(txManager, expenseRepo, employeeRepo, salarySvc, gate, resolver)

	scheduler := cron.NewScheduler(loc)
	if err := cron.NewNonWorkingDayJobs(attendanceSvc, loc).RegisterJobs(scheduler, cfg.Scheduler.NonWorkingDaySpec); err != nil {
		slog.Error("Failed to register cron jobs", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	router := appHTTP.NewRouter(JWTService, employeeRepo, appHTTP.Handlers{
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, loc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Overtime:     appHTTP.NewOvertimeHandler(overtimeSvc),
		Salary:       appHTTP.NewSalaryHandler(salarySvc),
		Expense:      appHTTP.NewExpenseHandler(expenseSvc),
		CompOff:      appHTTP.NewCompOffHandler(compOffSvc),
		Store:        appHTTP.NewStoreHandler(calendarSvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, JWTService, employeeRepo),
	}, appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		Version:        version,
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
	})

	// Cancelled on shutdown so open notification streams return.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelBase)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	scheduler.Stop()
	notifSvc.Stop()
}
