package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hramlk99k/library-api/internal/config"
	"github.com/hramlk99k/library-api/internal/db"
	"github.com/hramlk99k/library-api/internal/model"
	"github.com/hramlk99k/library-api/internal/repository"
)

type store struct {
	repo  repository.BookRepository
	close func(context.Context) error
}

// openStore connects the configured backend and makes sure its schema is in
// place before any request is served.
func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	if cfg.StoreDriver == config.DriverMongo {
		client, err := db.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}

		repo := repository.NewMongoBookRepository(client.Database(cfg.MongoDB), cfg.MongoCollection)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure mongo schema: %w", err)
		}

		slog.InfoContext(ctx, "store ready", "driver", cfg.StoreDriver, "database", cfg.MongoDB)
		return &store{repo: repo, close: client.Disconnect}, nil
	}

	database, err := db.ConnectWithRetry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(&model.Book{}); err != nil {
		return nil, fmt.Errorf("migrate books: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "store ready", "driver", cfg.StoreDriver)
	return &store{
		repo:  repository.NewGormBookRepository(database),
		close: func(context.Context) error { return sqlDB.Close() },
	}, nil
}
