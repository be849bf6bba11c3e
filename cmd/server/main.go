package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/rsmhq/rsm/internal/server"
	"github.com/rsmhq/rsm/modules"
	crmoutbox "github.com/rsmhq/rsm/modules/crm/infrastructure/outbox"
	"github.com/rsmhq/rsm/pkg/application"
	"github.com/rsmhq/rsm/pkg/configuration"
	"github.com/rsmhq/rsm/pkg/eventbus"
	"github.com/rsmhq/rsm/pkg/logging"
	"github.com/rsmhq/rsm/pkg/metrics"
	"github.com/rsmhq/rsm/pkg/outbox"
	eventbusdispatcher "github.com/rsmhq/rsm/pkg/outbox/dispatchers/eventbus"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	if conf.OpenTelemetry.Enabled {
		tracingCleanup := logging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.TempoURL,
		)
		defer tracingCleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to " + conf.OpenTelemetry.TempoURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	startOutboxBackground(conf, pool, logger, app.EventPublisher())

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func startOutboxBackground(
	conf *configuration.Configuration,
	pool *pgxpool.Pool,
	logger *logrus.Logger,
	bus eventbus.EventBusWithError,
) {
	outboxLog := logger.WithField("component", "outbox")
	table := crmoutbox.Table

	if conf.Outbox.RelayEnabled {
		relay, err := outbox.NewRelay(pool, table, eventbusdispatcher.New(bus), outbox.RelayOptions{
			PollInterval:    conf.Outbox.RelayPollInterval,
			BatchSize:       conf.Outbox.RelayBatchSize,
			LockTTL:         conf.Outbox.RelayLockTTL,
			SingleActive:    conf.Outbox.RelaySingleActive,
			LastErrorMaxLen: conf.Outbox.LastErrorMaxBytes,
			DispatchTimeout: conf.Outbox.RelayDispatchTimeout,
			Logger:          outboxLog.WithField("table", outbox.TableLabel(table)),
		})
		if err != nil {
			outboxLog.WithError(err).Warn("outbox: failed to create relay")
		} else {
			go func() {
				if err := relay.Run(context.Background()); err != nil {
					outboxLog.WithError(err).Error("outbox: relay stopped")
				}
			}()
		}
	}

	if conf.Outbox.CleanerEnabled {
		cleaner, err := outbox.NewCleaner(pool, table, outbox.CleanerOptions{
			Enabled:               true,
			Interval:              conf.Outbox.CleanerInterval,
			Retention:             conf.Outbox.CleanerRetention,
			DeadRetention:         conf.Outbox.CleanerDeadRetention,
			DeadAttemptsThreshold: conf.Outbox.CleanerDeadAttempts,
			Logger:                outboxLog.WithField("table", outbox.TableLabel(table)),
		})
		if err != nil {
			outboxLog.WithError(err).Warn("outbox: failed to create cleaner")
			return
		}
		go func() {
			if err := cleaner.Run(context.Background()); err != nil {
				outboxLog.WithError(err).Error("outbox: cleaner stopped")
			}
		}()
	}
}
