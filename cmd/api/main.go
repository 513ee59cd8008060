package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oasis-proxy/internal/api"
	"oasis-proxy/internal/config"
	"oasis-proxy/internal/logging"
	"oasis-proxy/internal/oasis"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("OASIS_CONFIG"), "Path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Production())
	slog.SetDefault(logger)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	client := cfg.Upstream.NewClient()
	client.Logger = logger.With("component", "oasis")
	service := oasis.NewService(cfg.Upstream.BaseURL, client, logger)

	router := api.NewRouter(service, cfg.CORS.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Leave room for the upstream fetch.
		WriteTimeout: cfg.Upstream.Timeout + 15*time.Second,
	}

	go func() {
		logger.Info("starting API server", "addr", srv.Addr, "upstream", cfg.Upstream.BaseURL, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
