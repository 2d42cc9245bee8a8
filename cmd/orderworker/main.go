package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/live-orders/internal/async"
	"github.com/joseph-ayodele/live-orders/internal/bootstrap"
	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/metrics"
	"github.com/joseph-ayodele/live-orders/internal/observability"
	"github.com/joseph-ayodele/live-orders/internal/stream"
)

func main() {
	// Setup structured logger that outputs messages with variables but no time/level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)
	bootstrap.LoadEnv(logger)

	cfg := common.LoadConfig()
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel := observability.InitOTel(ctx, logger, observability.OtelConfig{
		ServiceName: "orderworker",
		Environment: os.Getenv("APP_ENV"),
	})
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(flushCtx); err != nil {
			logger.Warn("otel shutdown failed", "error", err)
		}
	}()

	reg := metrics.NewRegistry()
	engine, err := bootstrap.NewEngine(ctx, cfg, reg, logger)
	if err != nil {
		logger.Error("failed to initialize engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close(logger)

	writer := stream.NewWriter(cfg.Kafka)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close kafka writer", "error", err)
		}
	}()
	reader := stream.NewReader(cfg.Kafka)
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("failed to close kafka reader", "error", err)
		}
	}()

	publisher := stream.NewPublisher(writer, engine.Adapter, cfg.Engine.ServiceType, reg, logger)
	queue := async.NewBuilderQueue(engine.Builder, publisher.Publish, logger,
		async.WithWorkers(cfg.Kafka.Workers),
		async.WithQueueSize(cfg.Kafka.Workers*4),
		async.WithMetrics(reg),
	)
	consumer := stream.NewConsumer(reader, queue, reg, logger)

	// gRPC health
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	metricsServer := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("orderworker health listening", "addr", cfg.Server.GRPCAddr)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		logger.Info("orderworker metrics listening", "addr", cfg.Server.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("orderworker consuming",
			"topic", cfg.Kafka.InputTopic,
			"group_id", cfg.Kafka.GroupID,
			"workers", cfg.Kafka.Workers,
		)
		return consumer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down orderworker")
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		queue.Shutdown(drainCtx)
		_ = metricsServer.Shutdown(drainCtx)
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("orderworker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("orderworker stopped")
}
