package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	httpdelivery "job-board/delivery/http"
	wsdelivery "job-board/delivery/websocket"
	"job-board/internal"
	"job-board/moderation"
	"job-board/observability"
	"job-board/realtime"
	"job-board/repositories"
	"job-board/runtime"
	"job-board/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Returning an error instead of exiting directly guarantees that deferred
// cleanup (the database close in particular) runs on every exit path.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	replacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	// Defer will be executed before run() returned anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Core components
	stats := observability.NewStats()
	presence := runtime.NewPresence()
	hub := realtime.NewHub(log, config.ConnectionBufferSize, stats)
	moderator, err := moderation.NewModerator(config.CensoredWords, replacement, log)
	if err != nil {
		return fmt.Errorf("moderator setup failed: %w", err)
	}

	jobRepository := repositories.NewJobRepository(db, log)
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	notifier := services.NewNotifier(jobRepository, messageRepository, presence, hub, moderator, stats, log)

	// 4. Transports
	router := gin.Default()
	httpdelivery.NewHandler(notifier, stats, log).RegisterRoutes(router)
	wsHandler := wsdelivery.NewHandler(hub, presence, notifier, config.AllowedOrigins, log)
	router.GET("/ws", wsHandler.Handle)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. HTTP server
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: router}

	// Use an error channel to capture ListenAndServe() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}
