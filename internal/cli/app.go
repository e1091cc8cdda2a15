package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/campusnest/sublet-market/internal/infrastructure/db/mongo"
	redisdb "github.com/campusnest/sublet-market/internal/infrastructure/db/redis"
	"github.com/campusnest/sublet-market/internal/pkg/config"
	"github.com/campusnest/sublet-market/pkg/logger"
)

const serviceName = "sublet-market"

// app holds the process-wide dependencies shared by the commands.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	mongo *mongo.Client
	db    *mongo.Database
	repos *mongodb.Repositories
	redis *redis.Client
}

// loadConfig reads and validates the environment and initialises the logger.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg := config.Load()
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})
	if err := cfg.Validate(); err != nil {
		return nil, log, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, log, nil
}

// openApp connects to MongoDB, and to Redis when withRedis is set.
func openApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, withRedis bool) (*app, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:   cfg,
		log:   log,
		mongo: client,
		db:    db,
		repos: mongodb.NewRepositories(db),
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	if withRedis {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.close(ctx)
			return nil, err
		}
		a.redis = rdb
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	return a, nil
}

func (a *app) close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing redis")
		}
	}
	if err := a.mongo.Disconnect(ctx); err != nil {
		a.log.Warn().Err(err).Msg("disconnecting mongodb")
	}
}
