// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"tradegate/pkg/platform/schedule"

	compliancehandler "tradegate/internal/compliance/handler"
	"tradegate/internal/compliance/service"
	"tradegate/internal/compliance/simulator"
	compliancestore "tradegate/internal/compliance/store"
	documentstore "tradegate/internal/compliance/store/document"
	"tradegate/internal/mirror"
	"tradegate/internal/platform/config"
	"tradegate/internal/platform/httpserver"
	"tradegate/internal/platform/logger"
	"tradegate/internal/platform/metrics"
	"tradegate/internal/platform/middleware"
	platformredis "tradegate/internal/platform/redis"
	"tradegate/internal/shipment"
	httptransport "tradegate/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	sinks := mirror.Fanout{}

	if cfg.RedisURL != "" {
		redisClient, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			log.Error("redis mirror unavailable", "err", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		sinks = append(sinks, mirror.NewRedis(redisClient, log, m))
	}

	var kafkaMirror *mirror.Kafka
	if len(cfg.KafkaBrokers) > 0 {
		var err error
		kafkaMirror, err = mirror.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, log, m)
		if err != nil {
			log.Error("kafka mirror unavailable", "err", err)
			os.Exit(1)
		}
		sinks = append(sinks, kafkaMirror)
	}

	var authorityMirror mirror.Mirror = sinks
	if len(sinks) == 0 {
		authorityMirror = mirror.Noop{}
	}

	docs := documentstore.NewInMemory()
	svc := service.NewDocumentService(docs,
		service.WithMirror(authorityMirror),
		service.WithLogger(log),
		service.WithMetrics(m),
	)

	sched := schedule.NewScheduler()
	sim := simulator.New(sched, cfg.Simulator, svc, log)
	svc.AttachSimulator(sim)

	registry := shipment.NewInMemory()
	ctx := context.Background()
	if _, err := compliancestore.SeedBootstrapPortfolio(ctx, registry, svc); err != nil {
		log.Error("seeding failed", "err", err)
		os.Exit(1)
	}

	validator := middleware.NewJWTValidator(cfg.JWTSigningKey)
	h := compliancehandler.New(svc, registry, log)
	router := httptransport.NewRouter(h, validator, log)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting tradegate", "addr", cfg.Addr)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		// Pending portal timers must not re-enter the store during teardown.
		sim.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if kafkaMirror != nil {
			return kafkaMirror.Close(shutdownCtx)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "err", err)
		os.Exit(1)
	}
}
