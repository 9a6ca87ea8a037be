package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/itera-sync/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/itera-sync/internal/adapters/handler/http"
	"github.com/comitanigiacomo/itera-sync/internal/adapters/migrate"
	"github.com/comitanigiacomo/itera-sync/internal/adapters/notify"
	"github.com/comitanigiacomo/itera-sync/internal/adapters/pubsub"
	"github.com/comitanigiacomo/itera-sync/internal/adapters/repository"
	"github.com/comitanigiacomo/itera-sync/internal/config"
	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/comitanigiacomo/itera-sync/internal/core/services"
	"github.com/comitanigiacomo/itera-sync/internal/core/workers"
)

// app is everything main starts and has to stop again.
type app struct {
	router    *gin.Engine
	db        *sqlx.DB
	redis     *redis.Client
	scheduler *workers.ReminderScheduler
	cancel    context.CancelFunc
}

func newApp(cfg *config.Server, startTime time.Time) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	var (
		trackerRepo domain.TrackerRepository
		userRepo    domain.UserRepository
		changes     domain.ChangeNotifier
	)

	switch cfg.Storage {
	case config.StorageMemory:
		log.Println("Using in-memory storage. Data is lost on restart.")
		trackerRepo = repository.NewInMemoryTrackerRepository()
		userRepo = repository.NewInMemoryUserRepository()
	default:
		log.Println("Connecting to database...")
		db, err := sqlx.Connect("pgx", cfg.DB.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		applied, err := migrate.Up(ctx, db, migrate.Postgres)
		cancel()
		if err != nil {
			return nil, err
		}
		log.Printf("Database connected successfully (%d migrations applied).", applied)

		trackerRepo = repository.NewPostgresTrackerRepository(db)
		userRepo = repository.NewPostgresUserRepository(db)
	}

	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(cache.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = rdb
		log.Println("Redis connected: caching snapshots, pub/sub for live feeds.")

		trackerRepo = repository.NewCachedTrackerRepository(trackerRepo, rdb)
		changes = cache.NewRedisNotifier(rdb)
	} else {
		changes = pubsub.NewHub()
	}

	sinks, err := notificationSinks(cfg)
	if err != nil {
		return nil, err
	}
	stream := notify.NewStreamHub()
	sinks = append(sinks, stream)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	delivery := workers.NewDeliveryWorker(sinks, cfg.DeliveryQueue)
	delivery.Start(ctx)

	clock := func() time.Time { return time.Now().In(cfg.Location) }

	a.scheduler = workers.NewReminderScheduler(delivery, clock)
	if err := a.scheduler.Start(); err != nil {
		return nil, err
	}

	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL, userRepo)
	authService := services.NewAuthService(userRepo, tokenService)
	trackerService := services.NewTrackerService(trackerRepo, changes, clock)
	feedService := services.NewFeedService(trackerService, changes)

	a.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:         adapterHTTP.NewAuthHandler(authService),
		TrackerHandler:      adapterHTTP.NewTrackerHandler(trackerService),
		FeedHandler:         adapterHTTP.NewFeedHandler(feedService),
		NotificationHandler: adapterHTTP.NewNotificationHandler(a.scheduler, stream),
		TokenService:        tokenService,
		DB:                  a.db,
		Redis:               a.redis,
		StartTime:           startTime,
	})

	ok = true
	return a, nil
}

// notificationSinks always includes the log sink, plus Slack and Discord when
// configured.
func notificationSinks(cfg *config.Server) (notify.Multi, error) {
	sinks := notify.Multi{notify.LogNotifier{}}

	if cfg.Slack.Enabled() {
		s, err := notify.NewSlackNotifier(notify.SlackOpts{
			BotToken:  cfg.Slack.BotToken,
			ChannelID: cfg.Slack.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
		log.Println("Slack notifications enabled.")
	}

	if cfg.Discord.Enabled() {
		d, err := notify.NewDiscordNotifier(notify.DiscordOpts{
			BotToken:  cfg.Discord.BotToken,
			ChannelID: cfg.Discord.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, d)
		log.Println("Discord notifications enabled.")
	}

	return sinks, nil
}

func (a *app) close() {
	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("Redis close error: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("Database close error: %v", err)
		}
	}
}
