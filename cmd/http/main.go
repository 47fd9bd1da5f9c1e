package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/console/internal/apiclient"
	"storefront/console/internal/config"
	"storefront/console/internal/handler"
	"storefront/console/internal/logx"
	"storefront/console/internal/service"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load config")
	}

	// 2. Setup logging
	logx.Init(logx.Options{
		Production: cfg.Env.IsProduction(),
		Level:      cfg.LogLevel,
	})

	// 3. Setup Logic
	api := apiclient.NewClient(apiclient.Config{
		APIURL:  cfg.API.URL,
		Timeout: cfg.API.Timeout,
	})
	cache := service.NewProductCache(0)

	h := handler.NewHandler(api, cache, handler.Options{
		CookieSecure: cfg.CookieSecure,
	})

	// 4. Setup Server
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 5. Run Server with Graceful Shutdown
	go func() {
		logx.Info().Str("port", cfg.ServerPort).Str("api_url", cfg.API.URL).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logx.Info().Msg("shutting down server")

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logx.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logx.Info().Msg("server exiting")
}
