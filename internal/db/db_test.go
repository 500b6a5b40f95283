package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hramlk99k/library-api/internal/config"
	"github.com/hramlk99k/library-api/internal/model"
)

func fastRetry(t *testing.T, attempts int) {
	t.Helper()

	origAttempts, origDelay := maxAttempts, delayBetweenTry
	maxAttempts, delayBetweenTry = attempts, 0
	t.Cleanup(func() { maxAttempts, delayBetweenTry = origAttempts, origDelay })
}

func stubSQLOpen(t *testing.T, fn func(driverName, dsn string) (*sql.DB, error)) {
	t.Helper()

	orig := sqlOpen
	sqlOpen = fn
	t.Cleanup(func() { sqlOpen = orig })
}

func postgresConfig() *config.Config {
	return &config.Config{
		StoreDriver:    config.DriverPostgres,
		DBHost:         "localhost",
		DBPort:         "5432",
		DBUser:         "postgres",
		DBName:         "books",
		DBSSLMode:      "disable",
		TZ:             "UTC",
		DBMaxOpenConns: 4,
		DBMaxIdleConns: 2,
	}
}

func TestConnectWithRetry_Postgres(t *testing.T) {
	fastRetry(t, 3)

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	var gotDSN string
	stubSQLOpen(t, func(driverName, dsn string) (*sql.DB, error) {
		gotDSN = dsn
		return sqlDB, nil
	})

	mock.ExpectPing()

	gdb, err := ConnectWithRetry(context.Background(), postgresConfig())
	require.NoError(t, err)
	assert.NotNil(t, gdb)
	assert.Contains(t, gotDSN, "dbname=books")
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectWithRetry_RetriesThenFails(t *testing.T) {
	fastRetry(t, 3)

	calls := 0
	stubSQLOpen(t, func(driverName, dsn string) (*sql.DB, error) {
		calls++
		sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		return sqlDB, nil
	})

	gdb, err := ConnectWithRetry(context.Background(), postgresConfig())
	require.Error(t, err)
	assert.Nil(t, gdb)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestConnectWithRetry_SQLOpenError(t *testing.T) {
	fastRetry(t, 1)

	stubSQLOpen(t, func(driverName, dsn string) (*sql.DB, error) {
		return nil, errors.New("open error")
	})

	_, err := ConnectWithRetry(context.Background(), postgresConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sql open: open error")
}

func TestConnectWithRetry_StopsOnCancel(t *testing.T) {
	fastRetry(t, 5)
	delayBetweenTry = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	stubSQLOpen(t, func(driverName, dsn string) (*sql.DB, error) {
		calls++
		cancel()
		return nil, errors.New("open error")
	})

	_, err := ConnectWithRetry(ctx, postgresConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestConnectWithRetry_SQLite(t *testing.T) {
	fastRetry(t, 1)

	gdb, err := ConnectWithRetry(context.Background(), &config.Config{
		StoreDriver: config.DriverSQLite,
		SQLitePath:  "file:dbtest?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&model.Book{}))
	assert.True(t, gdb.Migrator().HasTable("books"))
}

func TestConnectWithRetry_UnknownDriver(t *testing.T) {
	_, err := ConnectWithRetry(context.Background(), &config.Config{StoreDriver: config.DriverMongo})
	assert.Error(t, err)
}
