package main

import (
	"context"
	"fmt"

	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/internal/user/repository"
	"github.com/tair/user-favorites/pkg/config"
	"github.com/tair/user-favorites/pkg/database"
	"github.com/tair/user-favorites/pkg/logger"
)

// stores bundles the repositories of the configured driver
type stores struct {
	users     domain.UserRepository
	favorites domain.FavoriteRepository
	tx        domain.Transactor
	migrate   func(ctx context.Context) error
	ping      func(ctx context.Context) error
	close     func() error
}

func databaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}
}

// openStores connects to the store selected by cfg.Database.Driver. The
// returned repositories are wrapped with tracing.
func openStores(cfg *config.Config) (*stores, error) {
	var s *stores

	switch cfg.Database.Driver {
	case config.DriverGorm:
		db, err := database.NewGormConnection(databaseConfig(cfg))
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		s = &stores{
			users:     repository.NewGormUserRepository(db),
			favorites: repository.NewGormFavoriteRepository(db),
			tx:        repository.NewGormTransactor(db),
			migrate: func(ctx context.Context) error {
				return repository.AutoMigrate(db.WithContext(ctx))
			},
			ping:  sqlDB.PingContext,
			close: sqlDB.Close,
		}

	case config.DriverPostgres:
		db, err := database.NewPostgresConnection(databaseConfig(cfg))
		if err != nil {
			return nil, err
		}
		s = &stores{
			users:     repository.NewPostgresUserRepository(db),
			favorites: repository.NewPostgresFavoriteRepository(db),
			tx:        repository.NewPostgresTransactor(db),
			migrate: func(ctx context.Context) error {
				return repository.InitSchema(ctx, db)
			},
			ping:  db.PingContext,
			close: db.Close,
		}

	case config.DriverMemory:
		store := repository.NewMemoryStore()
		logger.Logger.Warn().Msg("Using in-memory store, data is lost on restart")
		s = &stores{
			users:     store.Users(),
			favorites: store.Favorites(),
			tx:        store,
			migrate:   func(context.Context) error { return nil },
			ping:      func(context.Context) error { return nil },
			close:     func() error { return nil },
		}

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Database.Driver)
	}

	s.users = repository.NewTracingUserRepository(s.users)
	s.favorites = repository.NewTracingFavoriteRepository(s.favorites)
	s.tx = repository.NewTracingTransactor(s.tx)

	logger.Logger.Info().
		Str("driver", cfg.Database.Driver).
		Msg("Store initialized")

	return s, nil
}
