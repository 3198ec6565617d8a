package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rushteam/seatmatch/config"
	_ "github.com/rushteam/seatmatch/config/builders"
	"github.com/rushteam/seatmatch/engine"
	"github.com/rushteam/seatmatch/filter"
	"github.com/rushteam/seatmatch/pkg/logger"
	"github.com/rushteam/seatmatch/registry"
	"github.com/rushteam/seatmatch/server"
)

func main() {
	// .env 可选，仅用于本地开发
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("failed to load .env: " + err.Error())
	}

	env := config.GetEnv()

	var (
		cfg config.Config
		err error
	)
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting seatmatch API server",
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("model", cfg.Model.Type),
		zap.String("pool", cfg.Pool.Type),
		zap.Float64("threshold", cfg.ThresholdValue()),
	)

	ctx := context.Background()

	m, err := config.BuildModel(ctx, cfg.Model)
	if err != nil {
		log.Fatal("Failed to build model", zap.Error(err))
	}

	pool, err := config.BuildPool(ctx, cfg.Pool)
	if err != nil {
		log.Fatal("Failed to build candidate pool", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Pool.SeedCSV != "" {
		n, err := registry.LoadCSVFile(ctx, cfg.Pool.SeedCSV, pool)
		if err != nil {
			log.Fatal("Failed to seed candidate pool", zap.String("path", cfg.Pool.SeedCSV), zap.Error(err))
		}
		log.Info("Seeded candidate pool", zap.String("path", cfg.Pool.SeedCSV), zap.Int("passengers", n))
	}

	opts := []engine.Option{
		engine.WithWorkers(cfg.Match.Workers),
		engine.WithTimeout(cfg.Match.Timeout),
	}
	if cfg.Match.FilterExpr != "" {
		f, err := filter.NewExprFilter(cfg.Match.FilterExpr)
		if err != nil {
			log.Fatal("Invalid match.filter_expr", zap.Error(err))
		}
		opts = append(opts, engine.WithFilters(f))
	}
	eng := engine.New(m, opts...)

	srv := server.New(server.Options{
		Engine:    eng,
		Registry:  pool,
		Threshold: cfg.ThresholdValue(),
		Logger:    log,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
}
