package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hramlk99k/library-api/internal/config"
)

var (
	maxAttempts     = 10
	delayBetweenTry = 2 * time.Second

	sqlOpen = sql.Open
)

var registerTracedPgx = sync.OnceValues(func() (string, error) {
	return otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
})

// ConnectWithRetry opens the SQL store selected by cfg.StoreDriver and keeps
// trying until it answers a ping or the attempts run out.
func ConnectWithRetry(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var open func() (*gorm.DB, error)

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		open = func() (*gorm.DB, error) { return openPostgres(cfg) }
	case config.DriverSQLite:
		open = func() (*gorm.DB, error) { return openSQLite(cfg) }
	default:
		return nil, fmt.Errorf("store driver %q is not a sql store", cfg.StoreDriver)
	}

	return retry(ctx, cfg.StoreDriver, func(context.Context) (*gorm.DB, error) {
		return open()
	})
}

// ConnectMongo connects to MongoDB and waits for the primary.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	_, err = retry(ctx, config.DriverMongo, func(ctx context.Context) (struct{}, error) {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return struct{}{}, client.Ping(pingCtx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

func openPostgres(cfg *config.Config) (*gorm.DB, error) {
	driverName, err := registerTracedPgx()
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	sqlDB, err := sqlOpen(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}

	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig(cfg))
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return gdb, nil
}

func openSQLite(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(cfg.SQLitePath), gormConfig(cfg))
}

func gormConfig(cfg *config.Config) *gorm.Config {
	level := logger.Warn
	if cfg.GinMode == "release" {
		level = logger.Error
	}
	return &gorm.Config{Logger: logger.Default.LogMode(level)}
}

func retry[T any](ctx context.Context, store string, fn func(context.Context) (T, error)) (T, error) {
	var (
		v   T
		err error
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}

		slog.WarnContext(ctx, "store not ready",
			"store", store,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", err,
		)

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return v, ctx.Err()
		case <-time.After(delayBetweenTry):
		}
	}

	return v, fmt.Errorf("could not connect to %s after %d attempts: %w", store, maxAttempts, err)
}
