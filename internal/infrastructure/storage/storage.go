// Package storage wires the configured persistence backend and the optional
// Redis layer into one set of repositories.
package storage

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lbsshop/storefront-api/internal/core/ports"
	"github.com/lbsshop/storefront-api/internal/infrastructure/db/filestore"
	"github.com/lbsshop/storefront-api/internal/infrastructure/db/mongo"
	"github.com/lbsshop/storefront-api/internal/infrastructure/db/postgres"
	"github.com/lbsshop/storefront-api/internal/infrastructure/db/redis"
	"github.com/lbsshop/storefront-api/internal/pkg/config"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store holds the repositories of the selected backend.
type Store struct {
	Users      ports.UserRepository
	Products   ports.ProductRepository
	Categories ports.CategoryRepository
	Carts      ports.CartRepository
	Orders     ports.OrderRepository

	// Redis is nil when REDIS_ADDR is empty.
	Redis *goredis.Client
	// Pingers maps dependency names to readiness checks.
	Pingers map[string]Pinger

	closers []func(context.Context) error
}

// Open connects to the backend named by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	s := &Store{Pingers: map[string]Pinger{}}

	var err error
	switch cfg.Storage.Driver {
	case config.DriverFile:
		err = s.openFile(cfg)
	case config.DriverMongo:
		err = s.openMongo(ctx, cfg)
	case config.DriverPostgres:
		err = s.openPostgres(ctx, cfg)
	default:
		err = fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		if err := s.openRedis(ctx, cfg, log); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}

	log.Info().
		Str("driver", cfg.Storage.Driver).
		Bool("redis", s.Redis != nil).
		Msg("storage ready")
	return s, nil
}

func (s *Store) openFile(cfg *config.Config) error {
	fs, err := filestore.Open(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	s.Users = fs.Users()
	s.Products = fs.Products()
	s.Categories = fs.Categories()
	s.Carts = fs.Carts()
	s.Orders = fs.Orders()
	s.Pingers["filestore"] = fs
	return nil
}

func (s *Store) openMongo(ctx context.Context, cfg *config.Config) error {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, client.Disconnect)

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	s.Users = mongo.NewUserRepository(db)
	s.Products = mongo.NewProductRepository(db)
	s.Categories = mongo.NewCategoryRepository(db)
	s.Carts = mongo.NewCartRepository(db)
	s.Orders = mongo.NewOrderRepository(db)
	s.Pingers["mongodb"] = mongo.NewPinger(client)
	return nil
}

func (s *Store) openPostgres(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func(context.Context) error { return db.Close() })

	if err := postgres.Migrate(ctx, db, "up"); err != nil {
		return err
	}
	s.Users = postgres.NewUserRepository(db)
	s.Products = postgres.NewProductRepository(db)
	s.Categories = postgres.NewCategoryRepository(db)
	s.Carts = postgres.NewCartRepository(db)
	s.Orders = postgres.NewOrderRepository(db)
	s.Pingers["postgres"] = postgres.NewPinger(db)
	return nil
}

func (s *Store) openRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })

	s.Redis = client
	s.Products = redis.NewCachedProductRepository(s.Products, client, cfg.Redis.CacheTTL, log)
	s.Pingers["redis"] = redis.NewPinger(client)
	return nil
}

// Close releases every connection in reverse order of opening.
func (s *Store) Close(ctx context.Context) error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
