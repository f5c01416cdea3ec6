package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/BloggingApp/social-service/internal/config"
	"github.com/BloggingApp/social-service/internal/handler"
	"github.com/BloggingApp/social-service/internal/live"
	"github.com/BloggingApp/social-service/internal/rabbitmq"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/badgerrepo"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/BloggingApp/social-service/internal/repository/postgres"
	"github.com/BloggingApp/social-service/internal/server"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := config.LoadEnv(); err != nil {
		logger.Sugar().Panicf("failed to load environment variables: %s", err.Error())
	}

	if err := config.InitConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	cfg := config.Load()

	store, err := openStore(ctx, logger, cfg)
	if err != nil {
		logger.Sugar().Panicf("failed to open %s store: %s", cfg.Store.Driver, err.Error())
	}
	defer store.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)
	defer rdb.Close()

	var broker live.Broker
	switch cfg.Live.Broker {
	case "memory":
		broker = live.NewMemoryBroker()
	default:
		broker = live.NewRedisBroker(rdb)
	}

	deps := service.Deps{
		Logger: logger,
		Repo:   repository.New(store, rdb),
		Broker: broker,
		Votes:  cfg.Votes,
	}

	var mq *rabbitmq.MQConn
	if cfg.RabbitMQConn != "" {
		mq, err = rabbitmq.New(cfg.RabbitMQConn)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
		}
		defer mq.Close()
		deps.Publisher = mq
		logger.Info("Successfully connected to RabbitMQ")
	} else {
		logger.Warn("RABBITMQ_CONN_STRING is not set, events will not be published")
	}

	if !cfg.Votes.Guarded {
		logger.Warn("vote writes are unguarded, concurrent votes may be lost")
	}

	services := service.New(deps)
	handlers := handler.New(services, logger, handler.Options{
		AccessSecret: cfg.AccessSecret,
		ClientOrigin: cfg.ClientOrigin,
	})

	srv := server.New(config.ServerConfig{
		Port:           cfg.Port,
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Sugar().Infof("Server started on port %s", cfg.Port)
		return srv.Run()
	})

	if mq != nil {
		g.Go(func() error {
			return services.StartConsumeAll(gctx, mq)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Sugar().Errorf("server stopped with error: %s", err.Error())
	}
}

func openStore(ctx context.Context, logger *zap.Logger, cfg config.Config) (*docstore.Store, error) {
	switch cfg.Store.Driver {
	case "badger":
		db, err := badgerrepo.Open(badgerrepo.Config{
			Path:   cfg.Store.BadgerPath,
			Logger: logger,
		})
		if err != nil {
			return nil, err
		}
		logger.Sugar().Infof("Opened BadgerDB store at %s", cfg.Store.BadgerPath)
		return badgerrepo.New(db), nil
	case "postgres":
		db, err := postgres.DB(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Successfully connected to PostgreSQL")
		return postgres.New(db), nil
	}
	return nil, errors.New("unknown store driver")
}
