package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	for _, key := range []string{
		"PORT", "STORE_DRIVER", "DB_HOST", "DB_SSLMODE", "DB_MAX_OPEN_CONNS",
		"MONGO_DB", "CORS_ALLOWED_ORIGINS", "METRICS_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.Equal(t, "library", cfg.MongoDB)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, ,http://b.example")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "require", cfg.DBSSLMode)
	assert.Equal(t, 20, cfg.DBMaxOpenConns)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoad_EnvFileInDebug(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, envFile), []byte("SQLITE_PATH=from-file.db\n"), 0o600))

	nested := filepath.Join(dir, "cmd", "server")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	t.Setenv("GIN_MODE", "debug")
	// godotenv never overrides a variable that is already set, even to "".
	t.Setenv("SQLITE_PATH", "")
	require.NoError(t, os.Unsetenv("SQLITE_PATH"))

	cfg := Load()

	assert.Equal(t, "from-file.db", cfg.SQLitePath)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "db", DBUser: "u", DBPass: "p", DBName: "books",
		DBPort: "5432", DBSSLMode: "disable", TZ: "UTC",
	}

	assert.Equal(t,
		"host=db user=u password=p dbname=books port=5432 sslmode=disable TimeZone=UTC",
		cfg.DSN(),
	)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "postgres ok",
			cfg:  Config{StoreDriver: DriverPostgres, Port: "8080", DBHost: "h", DBPort: "5432", DBUser: "u", DBName: "n"},
		},
		{
			name:    "postgres missing host",
			cfg:     Config{StoreDriver: DriverPostgres, Port: "8080", DBPort: "5432", DBUser: "u", DBName: "n"},
			wantErr: "DB_HOST",
		},
		{
			name: "sqlite ok",
			cfg:  Config{StoreDriver: DriverSQLite, Port: "8080", SQLitePath: "x.db"},
		},
		{
			name:    "mongo missing collection",
			cfg:     Config{StoreDriver: DriverMongo, Port: "8080", MongoURI: "mongodb://x", MongoDB: "lib"},
			wantErr: "MONGO_COLLECTION",
		},
		{
			name:    "unknown driver",
			cfg:     Config{StoreDriver: "redis", Port: "8080"},
			wantErr: `unknown STORE_DRIVER "redis"`,
		},
		{
			name:    "bad port",
			cfg:     Config{StoreDriver: DriverSQLite, Port: "http", SQLitePath: "x.db"},
			wantErr: "invalid PORT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("TEST_INT_VAR", "123")
	assert.Equal(t, 123, getenvInt("TEST_INT_VAR", 0))

	t.Setenv("TEST_INT_VAR", "invalid")
	assert.Equal(t, 10, getenvInt("TEST_INT_VAR", 10))

	t.Setenv("TEST_BOOL_VAR", "true")
	assert.True(t, getenvBool("TEST_BOOL_VAR", false))

	t.Setenv("TEST_BOOL_VAR", "nope")
	assert.False(t, getenvBool("TEST_BOOL_VAR", false))
}

func TestLoad_BlankOriginListIsEmpty(t *testing.T) {
	t.Setenv("GIN_MODE", "test")

	for _, v := range []string{",", " ", " , ,"} {
		t.Setenv("CORS_ALLOWED_ORIGINS", v)
		assert.Empty(t, Load().CORSAllowedOrigins, "value %q", v)
	}
}
