package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	apphandler "yojanamitra/internal/application/handler"
	appmetrics "yojanamitra/internal/application/metrics"
	appservice "yojanamitra/internal/application/service"
	appstore "yojanamitra/internal/application/store"
	"yojanamitra/internal/home"
	homehandler "yojanamitra/internal/home/handler"
	"yojanamitra/internal/navigation"
	"yojanamitra/internal/notify"
	notifyhandler "yojanamitra/internal/notify/handler"
	"yojanamitra/internal/platform/config"
	"yojanamitra/internal/platform/httpserver"
	"yojanamitra/internal/platform/kafka"
	"yojanamitra/internal/platform/logger"
	"yojanamitra/internal/platform/metrics"
	"yojanamitra/internal/platform/postgres"
	redisclient "yojanamitra/internal/platform/redis"
	profilehandler "yojanamitra/internal/profile/handler"
	profilemetrics "yojanamitra/internal/profile/metrics"
	profileservice "yojanamitra/internal/profile/service"
	profilestore "yojanamitra/internal/profile/store"
	"yojanamitra/internal/ratelimit"
	ratelimitmetrics "yojanamitra/internal/ratelimit/metrics"
	"yojanamitra/internal/scheme"
	schemehandler "yojanamitra/internal/scheme/handler"
	schememetrics "yojanamitra/internal/scheme/metrics"
	schemeservice "yojanamitra/internal/scheme/service"
	"yojanamitra/internal/selection"
	"yojanamitra/internal/settings"
	settingshandler "yojanamitra/internal/settings/handler"
	httptransport "yojanamitra/internal/transport/http"
	"yojanamitra/internal/viewstate"
	viewstatehandler "yojanamitra/internal/viewstate/handler"
	viewstatestore "yojanamitra/internal/viewstate/store"
	"yojanamitra/internal/voice"
	voicehandler "yojanamitra/internal/voice/handler"
	voicemetrics "yojanamitra/internal/voice/metrics"
	"yojanamitra/pkg/requestcontext"
)

const inboxCapacity = 50

type stores struct {
	profiles     profileservice.Store
	selections   selectionStore
	views        viewstate.Store
	settings     settings.Store
	applications appservice.Store
	limits       ratelimit.Store
}

// selectionStore is satisfied by both selection backends.
type selectionStore interface {
	schemeservice.SelectionStore
	appservice.SelectionStore
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	checks := map[string]httptransport.HealthCheck{}

	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	rdb, err := redisclient.New(startCtx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		checks["redis"] = rdb.Health
	}

	db, err := postgres.Open(startCtx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(startCtx, db); err != nil {
			return err
		}
		checks["postgres"] = db.PingContext
	}

	producer, err := kafka.New(startCtx, cfg.Kafka)
	if err != nil {
		return err
	}
	sinks := notify.Fanout{}
	inbox := notify.NewInbox(inboxCapacity)
	sinks = append(sinks, inbox, notify.NewLogSink(log))
	if producer != nil {
		defer producer.Close()
		if err := kafka.EnsureTopic(startCtx, producer, cfg.Kafka); err != nil {
			return err
		}
		sinks = append(sinks, notify.NewKafkaSink(producer, cfg.Kafka.NotificationTopic, log))
		checks["kafka"] = producer.Ping
	}

	st := newStores(cfg, rdb, db)
	log.Info("backends selected",
		"redis", rdb != nil,
		"postgres", db != nil,
		"kafka", producer != nil,
	)

	views := viewstate.NewService(st.views, log)
	profiles := profileservice.New(st.profiles,
		profileservice.WithLogger(log),
		profileservice.WithMetrics(profilemetrics.New()),
		profileservice.WithNotifier(sinks),
	)
	schemes := schemeservice.New(scheme.DefaultCatalog(), profiles, st.selections,
		schemeservice.WithLogger(log),
		schemeservice.WithMetrics(schememetrics.New()),
		schemeservice.WithNotifier(sinks),
		schemeservice.WithSearchState(views),
	)
	applications := appservice.New(st.applications, st.selections,
		appservice.WithLogger(log),
		appservice.WithMetrics(appmetrics.New()),
		appservice.WithNotifier(sinks),
		appservice.WithSampleSeeding(cfg.SeedSamples),
	)
	relay := voice.NewRelay()
	voices := voice.NewService(relay, relay, views,
		voice.WithLogger(log),
		voice.WithMetrics(voicemetrics.New()),
		voice.WithNotifier(sinks),
	)
	prefs := settings.NewService(st.settings, settings.WithLogger(log), settings.WithNotifier(sinks))
	summary := home.NewService(profiles, applications, schemes, inbox, log)

	language := func(ctx context.Context) string {
		return profiles.Language(ctx, requestcontext.SessionID(ctx))
	}

	limiter := ratelimit.New(st.limits, map[ratelimit.Class]ratelimit.Policy{
		ratelimit.ClassRead:  {Limit: cfg.RateLimit.ReadPerMinute, Window: time.Minute},
		ratelimit.ClassWrite: {Limit: cfg.RateLimit.WritePerMinute, Window: time.Minute},
	}, log,
		ratelimit.WithDisabled(cfg.RateLimit.Disabled),
		ratelimit.WithIPFactor(cfg.RateLimit.IPFactor),
		ratelimit.WithMetrics(ratelimitmetrics.New()),
	)

	router := httptransport.NewRouter(httptransport.Config{
		Logger:        log,
		Metrics:       metrics.New(),
		SessionCookie: cfg.SessionCookie,
		HealthChecks:  checks,
		RateLimit:     limiter.Handler,
	},
		homehandler.New(summary),
		profilehandler.New(profiles, log),
		schemehandler.New(schemes, log),
		viewstatehandler.New(views, log),
		apphandler.New(applications, log),
		voicehandler.New(voices, log),
		settingshandler.New(prefs, log),
		notifyhandler.New(inbox, log),
		navigation.NewHandler(language, log),
	)

	srv := httpserver.New(cfg.Addr, cfg.HTTP, router)
	return httpserver.Run(ctx, srv, cfg.HTTP, log,
		func(context.Context) { voices.Close() },
		func(ctx context.Context) {
			if producer == nil {
				return
			}
			if err := producer.Flush(ctx); err != nil {
				log.Warn("failed to flush notifications", "error", err)
			}
		},
	)
}

// newStores picks Redis and Postgres backends when configured, in-memory otherwise.
func newStores(cfg config.Server, rdb *redisclient.Client, db *sql.DB) stores {
	var st stores
	if rdb != nil {
		ttl := cfg.Redis.StateTTL
		st.profiles = profilestore.NewRedis(rdb, ttl)
		st.selections = selection.NewRedis(rdb, ttl)
		st.views = viewstatestore.NewRedis(rdb, ttl)
		st.settings = settings.NewRedis(rdb, ttl)
		st.limits = ratelimit.NewRedis(rdb)
	} else {
		st.profiles = profilestore.NewInMemory()
		st.selections = selection.NewInMemory()
		st.views = viewstatestore.NewInMemory()
		st.settings = settings.NewInMemory()
		st.limits = ratelimit.NewInMemory()
	}
	if db != nil {
		st.applications = appstore.NewPostgres(db)
	} else {
		st.applications = appstore.NewInMemory()
	}
	return st
}
