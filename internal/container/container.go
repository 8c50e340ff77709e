package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"storefront/breadcrumbs/internal/breadcrumbs"
	"storefront/breadcrumbs/internal/client"
	"storefront/breadcrumbs/internal/config"
	"storefront/breadcrumbs/internal/queue"
	"storefront/breadcrumbs/internal/render"
	"storefront/breadcrumbs/internal/repository"
	"storefront/breadcrumbs/internal/server"
	"storefront/breadcrumbs/internal/service"
	"storefront/breadcrumbs/internal/state"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const connectAttempts = 5

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     client.CatalogClient
	Repository repository.ProductRepository
	Queue      queue.Queue
	Cache      state.ProductCache
	Renderer   *render.Renderer

	Service *service.Service
	Server  *server.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	container.db = db

	if err := waitFor(ctx, "PostgreSQL", db.Ping); err != nil {
		container.Close()
		return nil, err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		container.Close()
		return nil, err
	}
	log.Info("✅ Connected to PostgreSQL successfully")

	container.Repository = repository.NewProductRepository(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})
	container.redis = rdb

	if err := waitFor(ctx, "Redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		container.Close()
		return nil, err
	}
	log.Info("✅ Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(ctx, rdb, cfg.Redis)
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Queue = redisQueue
	container.Cache = state.NewRedisProductCache(rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second)

	container.Client = client.NewCatalogClient(cfg.Catalog, cfg.Storefront)

	renderer, err := render.New(cfg.Storefront.Classes)
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Renderer = renderer

	container.Service = service.NewService(
		container.Repository,
		container.Client,
		container.Queue,
		container.Cache,
		breadcrumbs.NewSuffixResolver(cfg.Storefront.BasePath, cfg.Storefront.URLSuffix),
		cfg.Redis.MinIdleTime,
		cfg.Redis.MaxRetries,
	)
	container.Server = server.New(cfg.Server.Addr(), container.Service, renderer)

	return container, nil
}

func waitFor(ctx context.Context, name string, ping func(context.Context) error) error {
	err := retry.Do(
		func() error { return ping(ctx) },
		retry.Context(ctx),
		retry.Attempts(connectAttempts),
		retry.Delay(time.Second),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("⚠️ %s not reachable (attempt %d/%d): %v", name, n+1, connectAttempts, err)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", name, err)
	}
	return nil
}

// Run serves HTTP and processes refresh tasks until ctx is cancelled
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Server.Start(ctx)
	})

	g.Go(func() error {
		return c.Service.RunWorkers(ctx, c.Config.Server.Workers)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() {
	log.Info("Shutting down container...")

	if c.Client != nil {
		if err := c.Client.Close(); err != nil {
			log.Warnf("⚠️ Failed to close catalog client: %v", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠️ Failed to close Redis client: %v", err)
		}
	}
	if c.db != nil {
		c.db.Close()
	}

	log.Info("Container shut down successfully")
}
