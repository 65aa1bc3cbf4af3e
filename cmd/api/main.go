package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rentium/rentium-api/internal/constants"
	"github.com/rentium/rentium-api/internal/logger"
	"github.com/rentium/rentium-api/internal/server"
	"go.uber.org/zap"
)

// @title           Rentium API
// @version         1.0
// @description     Multi-asset ledger with time-bound usage-rights delegation

// @host      localhost:8000
// @BasePath  /api/v1
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	stage := os.Getenv(constants.EnvStage)
	if stage == "" {
		stage = "dev"
	}
	logger.InitLogger(stage)
	defer logger.Sync() //nolint:errcheck

	// Wire ledger state, persistence and handlers
	server.InitializeHandlers()
	defer server.Shutdown()

	router := server.SetupRouter()

	// Get port from environment variable or use default
	port := os.Getenv(constants.EnvAPIPort)
	if port == "" {
		port = constants.DefaultAPIPort
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", zap.String("port", port), zap.String("stage", stage))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
