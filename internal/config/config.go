package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envFile = ".env.dev"

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Config struct {
	GinMode string
	Port    string
	TZ      string

	StoreDriver string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	SQLitePath string

	MongoURI        string
	MongoDB         string
	MongoCollection string

	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

// findEnvFile walks up from the working directory looking for .env.dev.
func findEnvFile() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, envFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func Load() *Config {
	if getenv("GIN_MODE", "debug") == "debug" {
		if envPath, ok := findEnvFile(); !ok {
			slog.Warn("env file not found in any parent directory", "file", envFile)
		} else if err := godotenv.Load(envPath); err != nil {
			slog.Warn("could not load env file", "path", envPath, "error", err)
		} else {
			slog.Info("loaded env file", "path", envPath)
		}
	}

	cfg := &Config{
		GinMode:         getenv("GIN_MODE", "debug"),
		Port:            getenv("PORT", "8080"),
		TZ:              getenv("TZ", "UTC"),
		StoreDriver:     strings.ToLower(getenv("STORE_DRIVER", DriverPostgres)),
		DBHost:          getenv("DB_HOST", "localhost"),
		DBPort:          getenv("DB_PORT", "5432"),
		DBUser:          getenv("DB_USER", "postgres"),
		DBPass:          getenv("DB_PASS", ""),
		DBName:          getenv("DB_NAME", "postgres"),
		DBSSLMode:       os.Getenv("DB_SSLMODE"),
		DBMaxOpenConns:  getenvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:  getenvInt("DB_MAX_IDLE_CONNS", 5),
		SQLitePath:      getenv("SQLITE_PATH", "books.db"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "library"),
		MongoCollection: getenv("MONGO_COLLECTION", "books"),
		MetricsEnabled:  getenvBool("METRICS_ENABLED", true),
	}

	cfg.CORSAllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", "*"))

	if cfg.DBSSLMode == "" {
		if cfg.GinMode == "release" {
			cfg.DBSSLMode = "require"
		} else {
			cfg.DBSSLMode = "disable"
		}
	}

	return cfg
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost,
		c.DBUser,
		c.DBPass,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
		c.TZ,
	)
}

// Validate reports settings the selected store cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBPort == "" || c.DBUser == "" || c.DBName == "" {
			errs = append(errs, errors.New("postgres: DB_HOST, DB_PORT, DB_USER and DB_NAME are required"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite: SQLITE_PATH is required"))
		}
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDB == "" || c.MongoCollection == "" {
			errs = append(errs, errors.New("mongo: MONGO_URI, MONGO_DB and MONGO_COLLECTION are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid PORT %q", c.Port))
	}

	return errors.Join(errs...)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
