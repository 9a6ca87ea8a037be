package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/config"
)

// @title                      Itera Sync API
// @version                    1.0
// @description                Challenge and bad-habit trackers with live snapshots and reminders.
// @host                       localhost:8080
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	startTime := time.Now()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}

	a, err := newApp(cfg, startTime)
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}
	defer a.close()

	// Request contexts hang off baseCtx so open streams end on shutdown.
	baseCtx, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     a.router,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: event streams stay open for as long as the client
		// listens.
		IdleTimeout: 120 * time.Second,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(stopStreams)

	go func() {
		log.Printf("Itera Sync running on http://localhost:%s (storage=%s, tz=%s)", cfg.Port, cfg.Storage, cfg.Location)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown error: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
