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
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-relay/auth"
	"chat-relay/gate"
	"chat-relay/moderation"
	"chat-relay/projection"
	"chat-relay/relay"
	"chat-relay/repositories"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/transport/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer (database close included)
// executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB) for registered accounts
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Relay core
	var moderator *moderation.Moderator
	if words := config.censoredWordList(); len(words) > 0 {
		maskRune, err := characterRune(config.CensoredChar)
		if err != nil {
			return err
		}
		moderator, err = moderation.NewModerator(words, maskRune)
		if err != nil {
			return fmt.Errorf("moderation setup failed: %w", err)
		}
	}
	room := relay.NewRoom(log, projection.NewTimeline(config.HistoryLimit), moderator)

	// 4. Gate: accounts, session tokens, join tokens
	sessions := auth.NewTokenManager([]byte(config.JWTSecret), "chat-relay", config.AuthTokenDuration)
	authService := services.NewAuthService(repositories.NewUserRepository(db), sessions)
	tokenStore := gate.NewTokenStore()
	g := gate.NewGate(log, authService, sessions, tokenStore)

	wsHandler := ws.NewHandler(log, room, tokenStore, config.ConnectionBufferSize)
	router := gate.NewRouter(g, wsHandler)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Supervised maintenance workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewMaintenanceWorker(log, db, config.GCInterval),
		workers.NewPresenceWorker(log, room, config.PresenceInterval),
	)
	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.Run(ctx)
	}()

	// 7. HTTP server
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: router}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting chat relay", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}
