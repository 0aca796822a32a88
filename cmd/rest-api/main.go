package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streadway/amqp"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/matchforge/platform/cmd/rest-api/routing"
	jobs "github.com/matchforge/platform/pkg/app/jobs"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	matchmaking_services "github.com/matchforge/platform/pkg/domain/matchmaking/services"
	db "github.com/matchforge/platform/pkg/infra/db/mongodb"
	ioc "github.com/matchforge/platform/pkg/infra/ioc"
	kafka "github.com/matchforge/platform/pkg/infra/kafka"
	websocket "github.com/matchforge/platform/pkg/infra/websocket"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	builder := ioc.NewContainerBuilder()
	builder.WithEnvFile()

	if err := ioc.InjectMongoDB(builder.Container); err != nil {
		slog.ErrorContext(ctx, "failed to wire MongoDB repositories", "error", err)
		panic(err)
	}
	if err := ioc.InjectMessaging(builder.Container); err != nil {
		slog.ErrorContext(ctx, "failed to wire messaging infrastructure", "error", err)
		panic(err)
	}
	if err := ioc.InjectDomainServices(builder.Container); err != nil {
		slog.ErrorContext(ctx, "failed to wire domain services", "error", err)
		panic(err)
	}

	c := builder.WithInboundPorts().Build()

	var mongoClient *mongo.Client
	if err := c.Resolve(&mongoClient); err != nil {
		slog.ErrorContext(ctx, "failed to resolve mongo client", "error", err)
		panic(err)
	}
	var config common.Config
	if err := c.Resolve(&config); err != nil {
		slog.ErrorContext(ctx, "failed to resolve config", "error", err)
		panic(err)
	}
	if err := db.CreateIndexes(ctx, mongoClient, config.MongoDB.DBName); err != nil {
		slog.ErrorContext(ctx, "failed to create mongodb indexes", "error", err)
	}

	var hub *websocket.Hub
	if err := c.Resolve(&hub); err != nil {
		slog.ErrorContext(ctx, "failed to resolve websocket hub", "error", err)
		panic(err)
	}
	go hub.Run(ctx)
	slog.InfoContext(ctx, "websocket hub started")

	var bridge *kafka.WebSocketBridge
	if err := c.Resolve(&bridge); err != nil {
		slog.ErrorContext(ctx, "failed to resolve websocket bridge", "error", err)
		panic(err)
	}
	go func() {
		if err := bridge.Start(ctx); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "websocket bridge stopped", "error", err)
		}
	}()
	slog.InfoContext(ctx, "cross-replica websocket relay started")

	var coordinator *matchmaking_services.MatchmakingCoordinator
	if err := c.Resolve(&coordinator); err != nil {
		slog.ErrorContext(ctx, "failed to resolve matchmaking coordinator", "error", err)
		panic(err)
	}

	tickJob := jobs.NewMatchmakingTickJob(coordinator, tickInterval())
	go tickJob.Run(ctx)
	slog.InfoContext(ctx, "matchmaking tick job started")

	sweepJob := jobs.NewQueueSweepJob(coordinator, 5*time.Minute)
	go sweepJob.Run(ctx)
	slog.InfoContext(ctx, "queue sweep job started")

	var queue matchmaking_out.QueueIndex
	if err := c.Resolve(&queue); err != nil {
		slog.ErrorContext(ctx, "failed to resolve queue index", "error", err)
		panic(err)
	}
	signalJob := jobs.NewQueueSignalJob(coordinator, queue)
	go signalJob.Run(ctx)
	slog.InfoContext(ctx, "queue signal job started")

	var amqpConn *amqp.Connection
	if err := c.Resolve(&amqpConn); err != nil {
		slog.ErrorContext(ctx, "failed to resolve amqp connection", "error", err)
		panic(err)
	}
	var notifications matchmaking_out.NotificationRepository
	if err := c.Resolve(&notifications); err != nil {
		slog.ErrorContext(ctx, "failed to resolve notification repository", "error", err)
		panic(err)
	}

	pushWorker := jobs.NewPushWorker(amqpConn, notifications, &jobs.LoggingSender{Channel: matchmaking_entities.ChannelPush})
	go func() {
		if err := pushWorker.Run(ctx); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "push notification worker stopped", "error", err)
		}
	}()

	emailWorker := jobs.NewEmailWorker(amqpConn, notifications, &jobs.LoggingSender{Channel: matchmaking_entities.ChannelEmail})
	go func() {
		if err := emailWorker.Run(ctx); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "email notification worker stopped", "error", err)
		}
	}()
	slog.InfoContext(ctx, "notification delivery workers started")

	router := routing.NewRouter(ctx, c)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.InfoContext(ctx, "starting server on port "+port)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-shutdownChan
		slog.InfoContext(ctx, "received shutdown signal", "signal", sig.String())

		slog.InfoContext(ctx, "waiting for load balancer endpoint update...")
		time.Sleep(5 * time.Second)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		slog.InfoContext(ctx, "shutting down server gracefully...")
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "server shutdown error", "error", err)
		}

		cancel()
		slog.InfoContext(ctx, "server shutdown complete")
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.ErrorContext(ctx, "server error", "err", err)
		os.Exit(1)
	}
}

// tickInterval honors a shorter tick for integration tests (spec §4.A: 5s
// production / 2s test).
func tickInterval() time.Duration {
	if os.Getenv("MATCHMAKING_TICK_INTERVAL_MS") != "" {
		if ms, err := time.ParseDuration(os.Getenv("MATCHMAKING_TICK_INTERVAL_MS") + "ms"); err == nil {
			return ms
		}
	}
	if os.Getenv("APP_ENV") == "test" {
		return 2 * time.Second
	}
	return 5 * time.Second
}
