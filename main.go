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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrassist/chathub/config"
	"github.com/hrassist/chathub/internal/auth"
	"github.com/hrassist/chathub/internal/hub"
	store "github.com/hrassist/chathub/internal/repository"
	"github.com/hrassist/chathub/internal/service"
	v1 "github.com/hrassist/chathub/internal/transport/http/v1"
	"github.com/hrassist/chathub/internal/ws"
	"github.com/hrassist/chathub/policy"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting chat service...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.SeedDefaultMenu(ctx); err != nil {
		log.Printf("Failed to seed menu: %v", err)
	}
	if err := db.SeedDemoUsers(ctx); err != nil {
		log.Printf("Failed to seed demo users: %v", err)
	}

	// Initialize policy engine
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize service
	svc := service.New(db, policyEngine, cfg)

	// Initialize token verifier
	verifier := auth.NewSharedKeyVerifier(cfg.APIKey)

	// Initialize hub
	connectionHub := hub.NewHub()
	go connectionHub.Run()

	// Initialize WebSocket server
	wsServer := ws.NewServer(cfg, connectionHub, svc, verifier)

	// Initialize HTTP handler
	h := v1.NewHandler(svc, verifier)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(e)
	e.GET("/ws", wsServer.HandleWebSocket)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Chat service started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chat service...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chat service stopped")
}
