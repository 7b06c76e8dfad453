// Command api serves the maize yield prediction HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/mwaniasam/maize-yield-api/internal/adapter/http"
	kafkaadapter "github.com/mwaniasam/maize-yield-api/internal/adapter/kafka"
	"github.com/mwaniasam/maize-yield-api/internal/config"
	"github.com/mwaniasam/maize-yield-api/internal/model"
	"github.com/mwaniasam/maize-yield-api/internal/observability"
	"github.com/mwaniasam/maize-yield-api/internal/predict"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Model artifacts are mandatory: refuse to serve without them.
	artifacts, err := model.LoadArtifacts(cfg.ModelDir)
	if err != nil {
		logger.Error("failed to load model artifacts", "dir", cfg.ModelDir, "error", err)
		os.Exit(1)
	}
	metrics.ModelLoaded.Set(1)
	logger.Info("model artifacts loaded",
		"model", artifacts.Forest.Name(),
		"trees", artifacts.Forest.NumTrees(),
		"states", artifacts.States.Len(),
		"grades", artifacts.Grades.Len(),
	)

	// Prediction event publishing is feature-flagged via MAIZE_KAFKA_*.
	var recorder predict.Recorder
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger, metrics)
		recorder = publisher
		logger.Info("prediction event publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("prediction event publishing disabled")
	}

	service := predict.NewService(
		artifacts.Forest,
		artifacts.States,
		artifacts.Grades,
		artifacts.Schema,
		artifacts.Forest.Name(),
		recorder,
		logger,
		metrics,
		cfg.MaxBatchItems,
	)

	var servicer predict.Servicer = service
	if cfg.CacheSize > 0 {
		cached, err := predict.NewCachedService(service, cfg.CacheSize, metrics)
		if err != nil {
			logger.Error("failed to create prediction cache", "error", err)
			os.Exit(1)
		}
		servicer = cached
		logger.Info("prediction cache enabled", "size", cfg.CacheSize)
	}

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:           cfg.HTTPAddr,
		Service:        servicer,
		States:         artifacts.States,
		Grades:         artifacts.Grades,
		ModelName:      artifacts.Forest.Name(),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
