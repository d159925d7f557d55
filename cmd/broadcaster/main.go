package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"quotecast/internal/alert"
	"quotecast/internal/broadcast"
	"quotecast/internal/clock"
	"quotecast/internal/config"
	"quotecast/internal/live"
	"quotecast/internal/quote"
	"quotecast/internal/selection"
	"quotecast/internal/session"
	"quotecast/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info", nil)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(logger, "failed to load config", err)
	}

	// Operator alerts ride on RabbitMQ; warnings and worse are mirrored
	// there so an unattended broadcast can still page somebody.
	var alerts *alert.Publisher
	if cfg.RabbitMQ.URL != "" {
		alerts, err = alert.NewPublisher(alert.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			fatal(logger, "failed to connect to rabbitmq", err)
		}
		defer alerts.Close()
	}

	logger = setupLogger(cfg.LogLevel, alerts)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		fatal(logger, "failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fatal(logger, "failed to ping database", err)
	}
	logger.Info("connected to database")

	sess := session.New(session.Config{
		LoginURL:   cfg.Platform.AccountLoginURL,
		Mail:       cfg.Account.Mail,
		Password:   cfg.Account.Password,
		TOTPSecret: cfg.Account.TOTPSecret,
		UserAgent:  cfg.Platform.UserAgent,
		Timeout:    cfg.Platform.Timeout,
	}, logger)

	schedule := live.NewSchedule(cfg.Schedule, logger)
	slots := live.NewManager(cfg.Platform, cfg.Broadcast, schedule, sess, logger)
	quotes := quote.NewController(cfg.Platform, cfg.Broadcast, sess, logger)
	selector := selection.NewEngine(cfg.Selection, cfg.Platform, cfg.Broadcast, quotes, logger)
	store := postgres.NewStore(db, logger)

	loop := broadcast.NewLoop(
		cfg.Broadcast,
		cfg.Selection.RequestWinners,
		slots,
		quotes,
		store,
		selector,
		clock.New(),
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting broadcaster",
		"community", cfg.Broadcast.CommunityID,
		"slot_duration", cfg.Broadcast.SlotDuration,
	)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatal(logger, "broadcast loop terminated", err)
	}
}

// fatal reports a terminal condition and ends the process. The exit status
// is always 0: failure is signalled through logs and the alert channel, and
// the supervisor restarts the process regardless of status.
func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(0)
}

func setupLogger(level string, alerts *alert.Publisher) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if alerts != nil {
		handler = alert.NewMirrorHandler(handler, alerts, slog.LevelWarn)
	}
	return slog.New(handler)
}
