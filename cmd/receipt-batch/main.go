package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/junhyuk-im/receipt-ocr/internal/clova"
	"github.com/junhyuk-im/receipt-ocr/internal/common"
	"github.com/junhyuk-im/receipt-ocr/internal/export"
	"github.com/junhyuk-im/receipt-ocr/internal/ingest"
	"github.com/junhyuk-im/receipt-ocr/internal/pipeline"
	"github.com/junhyuk-im/receipt-ocr/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem = flag.Bool("inmem", false, "use an in-memory SQLite database")
		dir   = flag.String("dir", "", "directory to process receipt images from (required)")
		watch = flag.Bool("watch", false, "keep watching the directory for new images")
		out   = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "expenses.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *inmem {
		cfg.Database.DSN = "file::memory:?cache=shared"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.Open(cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	expensesRepo := repository.NewExpenseRepository(db, logger)
	pipe := pipeline.New(clova.NewClient(cfg.Clova, logger), logger)

	processed := 0
	failures := 0
	process := func(path string) {
		rec, err := pipe.Run(ctx, path)
		if err != nil {
			logger.Error("failed to process image", "path", path, "error", err)
			failures++
			return
		}
		if _, err := expensesRepo.Create(ctx, rec, filepath.Base(path)); err != nil {
			logger.Error("failed to save expense", "path", path, "error", err)
			failures++
			return
		}
		processed++
	}

	if *watch {
		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Root:        *dir,
			InitialScan: true,
			Debounce:    500 * time.Millisecond,
		}, logger)
		if err != nil {
			logger.Error("failed to start watcher", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("watching for receipt images", "dir", *dir)
	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case path, ok := <-events:
				if !ok {
					break loop
				}
				process(path)
			case _, ok := <-errs:
				if !ok {
					errs = nil
				}
			}
		}
	} else {
		paths, err := ingest.ScanDirectory(*dir)
		if err != nil {
			logger.Error("failed to scan directory", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("starting batch processing", "dir", *dir, "images", len(paths))
		for _, path := range paths {
			process(path)
		}
	}

	xlsxBytes, err := export.NewService(expensesRepo, logger).ExportXLSX(context.Background(), nil, nil)
	if err != nil {
		logger.Error("failed to export expenses", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"processed", processed,
		"failures", failures,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Images processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", *out)
}
