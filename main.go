package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/auth"
	"github.com/mauv0809/sportapp/internal/catalog"
	"github.com/mauv0809/sportapp/internal/config"
	"github.com/mauv0809/sportapp/internal/database"
	"github.com/mauv0809/sportapp/internal/feed"
	server "github.com/mauv0809/sportapp/internal/http"
	"github.com/mauv0809/sportapp/internal/invitation"
	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/notifier/slack"
	"github.com/mauv0809/sportapp/internal/processor"
	"github.com/mauv0809/sportapp/internal/pubsub"
	"github.com/mauv0809/sportapp/internal/push"
	"github.com/mauv0809/sportapp/internal/reservation"
	"github.com/mauv0809/sportapp/internal/review"
	"github.com/mauv0809/sportapp/internal/user"
	"github.com/redis/go-redis/v9"
)

const (
	amqpExchange = "sportapp.events"
	amqpQueue    = "sportapp.processor"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := newHub(ctx, cfg.Redis)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	stats := metrics.New(db)

	userStore := user.New(db, hub)
	reviewStore := review.New(db, hub)
	catalogStore := catalog.New(db, hub, reviewStore)

	// Without a Slack token the notifier only logs what it would post.
	dryRun := cfg.Slack.Token == ""
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	proc := processor.New(catalogStore, userStore, notifier, stats, nil, dryRun)
	events := newEvents(ctx, cfg.Events, proc)
	defer events.Close()
	proc.SetPubSub(events)

	pusher := push.New(cfg.Push.ServerKey, cfg.Push.Endpoint, cfg.Push.RatePerSecond)
	reservationStore := reservation.New(db, hub, userStore, catalogStore, events, metricsSvc, cfg.SlotDuration)
	invitationStore := invitation.New(db, hub, userStore, pusher, events, metricsSvc)

	s := server.NewServer(
		catalogStore,
		reservationStore,
		userStore,
		invitationStore,
		reviewStore,
		metricsSvc,
		metricsHandler,
		stats,
		auth.New(cfg.Auth.JWTSecret),
		proc,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// newHub relays the change feed through Redis when an address is configured and
// keeps it in-process otherwise.
func newHub(ctx context.Context, cfg config.RedisConfig) feed.Hub {
	if cfg.Addr == "" {
		return feed.NewMemoryHub()
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	hub, err := feed.NewRedisHub(ctx, rdb, feed.DefaultRedisChannel)
	if err != nil {
		log.Fatalf("Failed to connect change feed to Redis: %s", err)
	}
	return hub
}

// newEvents selects the broker domain events go through. With "pubsub" the
// processor is reached by push subscriptions on /events/*; with "amqp" it
// consumes a queue; otherwise events are handled in-process.
func newEvents(ctx context.Context, cfg config.EventsConfig, proc *processor.Processor) pubsub.PubSubClient {
	switch cfg.Backend {
	case "pubsub":
		client, err := pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		return client
	case "amqp":
		client, err := pubsub.NewAMQP(cfg.AMQPURL, amqpExchange)
		if err != nil {
			log.Fatalf("Failed to initialize amqp: %s", err)
		}
		if err := client.Consume(ctx, amqpQueue, proc.Handle); err != nil {
			log.Fatalf("Failed to consume events: %s", err)
		}
		return client
	default:
		log.Info("No event broker configured, handling events in-process", "backend", cfg.Backend)
		return pubsub.NewLocal(proc.Handle)
	}
}
