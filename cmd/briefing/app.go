package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/YunseobShin/wall-street/internal/briefing"
	"github.com/YunseobShin/wall-street/internal/client"
	"github.com/YunseobShin/wall-street/internal/config"
	"github.com/YunseobShin/wall-street/internal/database"
	"github.com/YunseobShin/wall-street/internal/dispatch"
	"github.com/YunseobShin/wall-street/internal/kafka"
	"github.com/YunseobShin/wall-street/internal/models"
	"github.com/YunseobShin/wall-street/internal/notify"
	"github.com/YunseobShin/wall-street/internal/store"
	"github.com/YunseobShin/wall-street/internal/subscription"
	"github.com/YunseobShin/wall-street/internal/trending"
)

// app wires every component from one Config
type app struct {
	cfg           *config.Config
	store         *store.BriefingStore
	remote        *client.Client
	feed          *trending.Feed
	manager       *briefing.Manager
	tracker       *dispatch.Tracker
	subscriptions *subscription.Service
	now           func() time.Time

	closers []func() error
}

var loadConfig = func() (*config.Config, error) {
	return config.LoadFromFile(configPath)
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	a := &app{cfg: cfg, now: time.Now}

	medium, err := a.openMedium(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = store.New(medium, cfg.Storage.Namespace)

	a.remote = client.New(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	a.feed = trending.NewFeed(a.remote, trending.New(cfg.Trending.Normalization))

	var managerOpts []briefing.Option
	var trackerOpts []dispatch.Option
	if cfg.Kafka.Enabled {
		briefings := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.BriefingTopic)
		dispatches := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.DispatchTopic)
		a.closers = append(a.closers, briefings.Close, dispatches.Close)
		managerOpts = append(managerOpts, briefing.WithPublisher(briefings))
		trackerOpts = append(trackerOpts, dispatch.WithPublisher(dispatches))
	}
	a.manager = briefing.NewManager(a.remote, a.store, managerOpts...)

	transports := map[models.Channel]dispatch.Transport{
		models.ChannelEmail: dispatch.NewEmailTransport(a.remote),
	}
	if cfg.Chat.WebhookURL != "" {
		transports[models.ChannelChat] = dispatch.NewChatTransport(notify.NewWebhookClient(cfg.Chat.WebhookURL, cfg.Chat.Prefix))
	}
	trackerOpts = append(trackerOpts, dispatch.WithTimeout(cfg.Remote.Timeout))
	a.tracker = dispatch.NewTracker(transports, trackerOpts...)

	a.subscriptions = subscription.NewService(a.remote)
	return a, nil
}

func (a *app) openMedium(ctx context.Context) (store.Medium, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendMemory:
		return store.NewMemoryMedium(), nil
	case config.BackendSQLite:
		m, err := store.OpenSQLite(a.cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, m.Close)
		return m, nil
	case config.BackendRedis:
		m, err := store.DialRedis(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, m.Close)
		return m, nil
	case config.BackendPostgres:
		db, err := database.New(a.cfg.Database.ConnectionString())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := db.Migrate(a.cfg.Database.MigrationsPath); err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("close: %v", err)
		}
	}
	a.closers = nil
}
