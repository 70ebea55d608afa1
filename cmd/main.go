package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"water_telemetry/internal/broker"
	"water_telemetry/internal/config"
	"water_telemetry/internal/handlers"
	"water_telemetry/internal/ksql"
	"water_telemetry/internal/logger"
	"water_telemetry/internal/repository"
	"water_telemetry/internal/repository/db"
	"water_telemetry/internal/server"
	"water_telemetry/internal/service"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// @title        Water Telemetry API
// @version      1.0
// @description  Pipeline state, event log and alert filter control for the water telemetry harness.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// each loop owns its own broker client
	pub := broker.NewKafkaPublisher(cfg.Kafka)
	sub := broker.NewKafkaSubscriber(cfg.Kafka)

	services := service.NewService(cfg, service.Deps{
		Repos:      repository.NewRepository(sqlDB),
		Publisher:  pub,
		Subscriber: sub,
		KSQL:       ksql.NewClient(cfg.KSQL, nil),
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, log.Named("http"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loops := runLoops(ctx, services, log)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)

	if err := pub.Close(); err != nil {
		log.Warnw("failed to close publisher", "err", err)
	}
	if err := sub.Close(); err != nil {
		log.Warnw("failed to close subscriber", "err", err)
	}
	_ = loops.Wait()
	log.Infow("stopped")
}

// runLoops starts producer, consumer and controller. A loop that ends with an
// error is logged and does not stop the others.
func runLoops(ctx context.Context, s *service.Service, log *logger.Logger) *errgroup.Group {
	var g errgroup.Group
	g.Go(func() error {
		if err := s.Producer.Run(ctx); err != nil {
			log.Errorw("producer stopped", "err", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.Consumer.Run(ctx); err != nil {
			log.Errorw("consumer stopped", "err", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.Controller.Run(ctx, os.Stdin, os.Stdout); err != nil {
			log.Errorw("controller stopped", "err", err)
		}
		return nil
	})
	return &g
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down...")

	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
