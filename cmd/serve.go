// serve.go - Runs the HTTP server

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"go-room-booking/auth"
	"go-room-booking/config"
	"go-room-booking/database"
	"go-room-booking/events"
	"go-room-booking/handlers"
	"go-room-booking/mqtt"
	"go-room-booking/obs"
	"go-room-booking/realtime"
	"go-room-booking/repository"
	"go-room-booking/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	// STEP 1: Load configuration and establish connections
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "go-room-booking", version, cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("[obs] tracer shutdown: %v", err)
		}
	}()

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("DB connection error: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.SeedDefaultAdmin(db, cfg); err != nil {
		return err
	}

	revoker, err := newRevoker(ctx, cfg)
	if err != nil {
		return err
	}

	// STEP 2: Event delivery. The hub is fed synchronously so watchers see
	// events at once; brokers go through the queue.
	hub := realtime.NewHub()
	defer hub.Close()
	sinks, closeSinks, err := newSinks(cfg)
	if err != nil {
		return err
	}
	defer closeSinks()
	dispatcher := events.NewDispatcher(sinks, cfg.EventQueueSize)
	pub := events.Multi{hub, dispatcher}

	// STEP 3: Services and routes
	users := repository.NewUserRepo(db)
	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	gate := services.NewSuspension()

	h := &handlers.Handler{
		Auth:         services.NewAuthSvc(users, tokens, revoker),
		Users:        services.NewUserSvc(users),
		Rooms:        services.NewRoomSvc(rooms, reservations, pub),
		Reservations: services.NewReservationSvc(reservations, reservations, pub, gate),
		Admin:        services.NewAdminSvc(users, rooms, reservations, gate),
		Hub:          hub,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handlers.NewRouter(h, h.Auth),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// STEP 4: Start the web server and wait for a signal
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	log.Printf("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	hub.Close() // hijacked WebSocket connections are not closed by Shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Printf("[events] drain: %v", err)
	}
	return nil
}

// newRevoker returns the Redis denylist when REDIS_ADDR is set, otherwise
// an in-memory one that only this process sees.
func newRevoker(ctx context.Context, cfg *config.Config) (auth.Revoker, error) {
	if cfg.RedisAddr == "" {
		return auth.NewMemoryDenylist(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return auth.NewRedisDenylist(client), nil
}

// newSinks connects the configured message brokers.
func newSinks(cfg *config.Config) (events.Publisher, func(), error) {
	var (
		sinks   events.Multi
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.MQTTBroker != "" {
		client, err := mqtt.Connect(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("MQTT connection error: %w", err)
		}
		sinks = append(sinks, client)
		closers = append(closers, client.Close)
		log.Printf("[events] publishing to MQTT %s", cfg.MQTTBroker)
	}
	if cfg.AMQPURL != "" {
		pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, pub)
		closers = append(closers, func() { _ = pub.Close() })
		log.Printf("[events] publishing to AMQP exchange %s", cfg.AMQPExchange)
	}
	return sinks, closeAll, nil
}
