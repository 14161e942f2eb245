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

	"github.com/google/uuid"

	"github.com/example/cafe-manager/internal/application"
	"github.com/example/cafe-manager/internal/config"
	"github.com/example/cafe-manager/internal/domain"
	httptransport "github.com/example/cafe-manager/internal/http"
	"github.com/example/cafe-manager/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	pool, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.Database.Path)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := sqlite.Migrate(pool, logger); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	if err := sqlite.Seed(context.Background(), pool, logger); err != nil {
		logger.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now
	rates := domain.DefaultRateCard()

	tableRepo := sqlite.NewTableRepository(pool)
	productRepo := sqlite.NewProductRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)
	orderRepo := sqlite.NewOrderRepository(pool)
	reportRepo := sqlite.NewReportRepository(pool)

	floorService := application.NewFloorService(tableRepo, sessionRepo, orderRepo, logger)
	sessionService := application.NewSessionService(tableRepo, sessionRepo, orderRepo, rates, idGenerator, now, logger)
	orderService := application.NewOrderService(sessionRepo, orderRepo, productRepo, idGenerator, now, logger)
	reportService := application.NewReportService(reportRepo, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Tables:     httptransport.NewTableHandler(floorService, logger),
		Sessions:   httptransport.NewSessionHandler(sessionService, logger),
		Orders:     httptransport.NewOrderHandler(orderService, logger),
		Reports:    httptransport.NewReportHandler(reportService, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("cafe manager listening", "addr", server.Addr, "db_path", cfg.Database.Path)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
