package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/joseph-ayodele/live-orders/internal/async"
	"github.com/joseph-ayodele/live-orders/internal/bootstrap"
	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/entity"
	"github.com/joseph-ayodele/live-orders/internal/export"
	"github.com/joseph-ayodele/live-orders/internal/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// collector keeps built orders for the export and optionally writes payloads.
type collector struct {
	mu          sync.Mutex
	orders      []*entity.OrderStructure
	engine      *bootstrap.Engine
	payloadDir  string
	serviceType string
}

func (c *collector) sink(_ context.Context, job async.Job, o *entity.OrderStructure) error {
	c.mu.Lock()
	c.orders = append(c.orders, o)
	c.mu.Unlock()

	if c.payloadDir == "" {
		return nil
	}
	data, err := json.MarshalIndent(c.engine.Adapter.Prepare(o, c.serviceType), "", "  ")
	if err != nil {
		return err
	}
	name := o.OrderID + ".json"
	if base := filepath.Base(job.ID); base != "." && base != "/" {
		name = base[:len(base)-len(filepath.Ext(base))] + "." + o.OrderID + ".json"
	}
	return os.WriteFile(filepath.Join(c.payloadDir, name), data, 0o644)
}

func (c *collector) sorted() []*entity.OrderStructure {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]*entity.OrderStructure(nil), c.orders...)
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}

func main() {
	var (
		dir         = flag.String("dir", "", "directory of extraction JSON files (required)")
		out         = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		payloads    = flag.String("payloads", "", "directory to write one service payload per order (optional)")
		serviceType = flag.String("service", "", "payload shape: default, shopify, woocommerce (defaults to ORDER_SERVICE_TYPE)")
		watch       = flag.Bool("watch", false, "keep watching the directory for new files until interrupted")
		workers     = flag.Int("workers", 0, "build workers (defaults to ORDER_WORKERS)")
		skipHidden  = flag.Bool("skip-hidden", true, "skip hidden files and directories")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "orders.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	bootstrap.LoadEnv(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}
	if *serviceType == "" {
		*serviceType = cfg.Engine.ServiceType
	}
	if *workers <= 0 {
		*workers = cfg.Kafka.Workers
	}
	if *payloads != "" {
		if err := os.MkdirAll(*payloads, 0o755); err != nil {
			printError("Error: creating %s: %v\n", *payloads, err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := bootstrap.NewEngine(ctx, cfg, nil, logger)
	if err != nil {
		logger.Error("failed to initialize engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close(logger)

	col := &collector{engine: engine, payloadDir: *payloads, serviceType: *serviceType}
	queue := async.NewBuilderQueue(engine.Builder, col.sink, logger,
		async.WithWorkers(*workers),
		async.WithBuildTimeout(time.Minute),
	)

	usecase := ingest.NewUsecase(func(ctx context.Context, path string, env ingest.Envelope) error {
		return queue.Enqueue(ctx, async.Job{
			ID:         path,
			RequestID:  env.RequestID,
			Extraction: env.Extraction,
			FormFields: env.FormFields,
		})
	}, logger)

	_, stats, err := usecase.IngestDirectory(ctx, *dir, *skipHidden)
	if err != nil {
		logger.Error("failed to ingest directory", "dir", *dir, "error", err)
	}
	logger.Info("directory ingested", "matched", stats.Matched, "failed", stats.Failed, "deduplicated", stats.Deduplicated)

	if *watch {
		runWatch(ctx, usecase, *dir, logger)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	queue.Shutdown(shutdownCtx)
	cancel()

	data, err := export.NewService(logger).ExportOrdersXLSX(context.Background(), col.sorted())
	if err != nil {
		logger.Error("failed to export orders", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("failed to write workbook", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("orders exported", "path", *out, "orders", len(col.orders))
}

func runWatch(ctx context.Context, usecase *ingest.Usecase, dir string, logger *slog.Logger) {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:    []string{dir},
		Debounce: 250 * time.Millisecond,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to start watcher", "dir", dir, "error", err)
		return
	}
	logger.Info("watching for extraction files", "dir", dir)
	for {
		select {
		case path, ok := <-events:
			if !ok {
				return
			}
			if _, err := usecase.IngestPath(ctx, path); err != nil {
				logger.Warn("ingest.file.error", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
