package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/junhyuk-im/receipt-ocr/internal/clova"
	"github.com/junhyuk-im/receipt-ocr/internal/common"
	"github.com/junhyuk-im/receipt-ocr/internal/export"
	"github.com/junhyuk-im/receipt-ocr/internal/pipeline"
	"github.com/junhyuk-im/receipt-ocr/internal/repository"
	"github.com/junhyuk-im/receipt-ocr/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		logger.Error("failed to create upload directory", "dir", cfg.Uploads.Dir, "error", err)
		os.Exit(1)
	}

	db, err := repository.Open(cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	expensesRepo := repository.NewExpenseRepository(db, logger)
	exporter := export.NewService(expensesRepo, logger)

	ocrClient := clova.NewClient(cfg.Clova, logger)
	pipe := pipeline.New(ocrClient, logger)

	ocrHandler := server.NewOCRHandler(pipe, expensesRepo, cfg.Uploads.Dir, logger)
	expenseHandler := server.NewExpenseHandler(expensesRepo, exporter, logger)
	router := server.NewRouter(ocrHandler, expenseHandler, logger)

	janitor, err := server.StartJanitor(cfg.Uploads.Dir, cfg.Uploads.Retention, logger)
	if err != nil {
		logger.Error("failed to start upload janitor", "error", err)
		os.Exit(1)
	}
	defer janitor.Stop()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
