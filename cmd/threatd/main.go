package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/storm-threat-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/storm-threat-service/internal/adapter/kafka"
	"github.com/couchcryptid/storm-threat-service/internal/aggregator"
	"github.com/couchcryptid/storm-threat-service/internal/cache"
	"github.com/couchcryptid/storm-threat-service/internal/config"
	"github.com/couchcryptid/storm-threat-service/internal/observability"
	"github.com/couchcryptid/storm-threat-service/internal/provider/nws"
	"github.com/couchcryptid/storm-threat-service/internal/provider/openmeteo"
	"github.com/couchcryptid/storm-threat-service/internal/provider/spc"
	"github.com/couchcryptid/storm-threat-service/internal/shelter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	shelters, err := shelter.Open(cfg.ShelterDBPath)
	if err != nil {
		logger.Error("failed to open shelter store", "path", cfg.ShelterDBPath, "error", err)
		os.Exit(1)
	}

	spcClient := spc.NewClient(cfg.UserAgent, cfg.BulkFetchTimeout, logger)
	sources := aggregator.Sources{
		Alerts:      nws.NewClient(cfg.UserAgent, cfg.FetchTimeout, logger),
		Reports:     spcClient,
		Shelters:    shelters,
		Instability: openmeteo.NewClient(cfg.FetchTimeout, logger),
		Outlook:     spcClient,
		Discussions: spcClient,
	}

	agg := aggregator.New(sources, cache.New(clock), cfg, logger, metrics, clock)

	// Assessment publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher httpadapter.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, metrics, logger)
		publisher = kafkaPublisher
		metrics.PublisherEnabled.Set(1)
		logger.Info("assessment publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("assessment publishing disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, agg, publisher, cfg.DefaultRadiusMiles, logger)

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
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if err := shelters.Close(); err != nil {
		logger.Error("shelter store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
