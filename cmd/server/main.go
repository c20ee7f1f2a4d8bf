// Package main is the entry point of the house price quoting API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/config"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/datastore"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/http/handler"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/service"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("house price quoting service starting",
		zap.String("config", *configPath),
		zap.String("modelPath", cfg.Model.ModelPath),
		zap.String("preprocessorPath", cfg.Model.PreprocessorPath))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The service loads both artifacts up front; a missing or corrupt
	// artifact aborts startup rather than failing later requests.
	svc, err := service.FromFiles(cfg.Model.ModelPath, cfg.Model.PreprocessorPath, cfg.Model.DefaultSaleYear)
	if err != nil {
		log.Fatal("failed to load prediction service", zap.Error(err))
	}

	// Quote log database is optional.
	var pool *pgxpool.Pool
	if bool(cfg.Database.Enabled) {
		pool, err = pgxpool.New(ctx, cfg.Database.URL())
		if err != nil {
			log.Fatal("failed to connect to quote log database", zap.Error(err))
		}
		defer pool.Close()
	}
	var quotes datastore.QuoteWriter
	if pool != nil {
		quotes = datastore.NewWriter(pool, 100, time.Second, log)
	} else {
		quotes = datastore.NewWriter(nil, 0, 0, log)
	}
	defer quotes.Close()

	r := chi.NewRouter()
	r.Get("/health", handler.HealthCheckHandler)
	handler.NewQuoteHandler(svc, quotes, log).RegisterRoutes(r)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
