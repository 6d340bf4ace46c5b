package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bahjat/site-scorecard/internal/analyzer"
	"github.com/Bahjat/site-scorecard/internal/pageinsight"
	"github.com/Bahjat/site-scorecard/internal/platform/config"
	"github.com/Bahjat/site-scorecard/internal/platform/logger"
	"github.com/Bahjat/site-scorecard/internal/platform/middleware"
	"github.com/Bahjat/site-scorecard/internal/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, os.Stdout)

	dialer := pageinsight.NewDialer(cfg.AllowPrivateTargets)
	engine := pageinsight.NewEngine(
		pageinsight.NewHTTPClient(cfg.FetchTimeout, dialer),
		pageinsight.NewAuxiliaryClient(cfg.AuxFetchTimeout, dialer),
	)
	inspector := security.NewCertificateInspector(dialer)

	svc := analyzer.NewService(engine, inspector, log)
	transport := analyzer.NewTransport(svc, log)

	mux := http.NewServeMux()
	transport.RegisterRoutes(mux)

	handler := middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(log),
		middleware.Recover(log),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
