package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/periodica-hq/bizops-backend-go/internal/config"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/leave"
	appHTTP "github.com/periodica-hq/bizops-backend-go/internal/handler/http"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/cron"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/database"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/jwt"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/lock"
	"github.com/periodica-hq/bizops-backend-go/internal/repository/postgresql"
	leaveService "github.com/periodica-hq/bizops-backend-go/internal/service/leave"
	payrollService "github.com/periodica-hq/bizops-backend-go/internal/service/payroll"
	settlementService "github.com/periodica-hq/bizops-backend-go/internal/service/settlement"
	statutoryService "github.com/periodica-hq/bizops-backend-go/internal/service/statutory"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	var locker lock.Locker = lock.NoopLocker{}
	if cfg.Redis.Addr != "" {
		redisClient, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("error connecting to redis: %w", err)
		}
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient)
		slog.Info("Payroll run lock enabled", "redis_addr", cfg.Redis.Addr)
	} else {
		slog.Warn("REDIS_ADDR not set, payroll run lock disabled")
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	statutoryRepo := postgresql.NewStatutoryRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	settlementRepo := postgresql.NewSettlementRepository(db)
	transactor := postgresql.NewTransactor(db)

	statutorySvc := statutoryService.NewStatutoryService(statutoryRepo)
	accrual := leaveService.NewAccrualCalculator(leave.DefaultAccrualPolicy())
	payrollSvc := payrollService.NewPayrollService(
		payrollRepo,
		employeeRepo,
		leaveRequestRepo,
		statutorySvc,
		accrual,
		locker,
		payrollService.Options{Workers: cfg.Payroll.Workers, LockTTL: cfg.Payroll.LockTTL},
	)
	settlementSvc := settlementService.NewSettlementService(
		transactor,
		settlementRepo,
		employeeRepo,
		payrollRepo,
		statutorySvc,
	)

	scheduler := cron.NewScheduler()
	payrollJobs := cron.NewPayrollJobs(employeeRepo, payrollSvc, cfg.Payroll.AutoGenerateInterval, cfg.Payroll.AutoGenerateDay)
	payrollJobs.RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigin: cfg.App.FrontendURL,
			Env:           cfg.App.Env,
			LogLevel:      cfg.SlogLevel(),
		},
		JWTService,
		appHTTP.NewStatutoryHandler(statutorySvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewSettlementHandler(settlementSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
