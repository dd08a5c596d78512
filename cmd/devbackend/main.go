package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hackgods/healthcare-marketplace/internal/config"
	"github.com/hackgods/healthcare-marketplace/internal/devbackend"
	"github.com/hackgods/healthcare-marketplace/internal/logging"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("devbackend", "dev", "info")
		boot.Fatal().Err(err).Msg("config load error")
	}
	logger := logging.New("devbackend", cfg.Env, cfg.LogLevel)
	logger.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("devbackend starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := devbackend.New()
	sum, err := devbackend.Seed(backend, cfg.SeedCount)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed error")
	}
	logger.Info().
		Int("clinics", sum.Clinics).
		Int("doctors", sum.Doctors).
		Int("products", sum.Products).
		Int("lab_tests", sum.LabTests).
		Str("patient", devbackend.DevPatient.Email).
		Str("doctor", devbackend.DevDoctor.Email).
		Str("admin", devbackend.DevAdmin.Email).
		Msg("seeded")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr: net.JoinHostPort("", cfg.HTTPPort),
		Handler: devbackend.NewRouter(devbackend.RouterConfig{
			Backend:  backend,
			Logger:   logger,
			Registry: reg,
			Env:      cfg.Env,
			Version:  version,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
	case err := <-errCh:
		logger.Error().Err(err).Msg("http server error")
		os.Exit(1)
	}

	logger.Info().Msg("shutting down devbackend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
