// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smc-reunion/iftar-registration/internal/database"
	"github.com/smc-reunion/iftar-registration/internal/handler"
	"github.com/smc-reunion/iftar-registration/internal/metrics"
	"github.com/smc-reunion/iftar-registration/internal/repository"
	"github.com/smc-reunion/iftar-registration/internal/service"
)

func main() {
	ctx := context.Background()

	// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("✓ Connected to PostgreSQL")

	if err := database.CreateSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	regStore := repository.NewPostgresRegistrationStore(pool)
	eventStore := repository.NewPostgresEventStore(pool)
	m := metrics.New(prometheus.DefaultRegisterer)
	svc := service.New(regStore, eventStore, m)
	regHandler := handler.NewRegistrationHandler(svc)

	// ── 3. Build the router ───────────────────────────────────────────────
	adminToken := getEnv("ADMIN_TOKEN", "")
	if adminToken == "" {
		log.Println("⚠ ADMIN_TOKEN not set - the admin surface is disabled")
	}
	router := handler.NewRouter(regHandler, adminToken)

	// ── 4. Start server with graceful shutdown ────────────────────────────
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
