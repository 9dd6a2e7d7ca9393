package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

var errMissingSecret = errors.New("SECRET_KEY is required")

type config struct {
	DBDriver   string
	DBDSN      string
	DBUser     string
	DBName     string
	DBHost     string
	DBPassword string
	DBSSLMode  string
	SQLitePath string
	DBTimeout  time.Duration

	SecretKey  string
	SessionTTL time.Duration

	LogLevel string
	LogFile  string
}

// loadConfig reads .env (if present) and then the process environment.
func loadConfig() (config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := config{
		DBDriver:   getenv("DB_DRIVER", driverPostgres),
		DBDSN:      os.Getenv("DB_DSN"),
		DBUser:     os.Getenv("DB_USER"),
		DBName:     os.Getenv("DB_NAME"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),
		SQLitePath: getenv("SQLITE_PATH", "schoolportal.db"),
		SecretKey:  os.Getenv("SECRET_KEY"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogFile:    getenv("LOG_FILE", "schoolportal.log"),
	}

	var err error
	if cfg.DBTimeout, err = time.ParseDuration(getenv("DB_TIMEOUT", "5s")); err != nil {
		return config{}, fmt.Errorf("bad DB_TIMEOUT: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(getenv("SESSION_TTL", "30m")); err != nil {
		return config{}, fmt.Errorf("bad SESSION_TTL: %w", err)
	}

	switch cfg.DBDriver {
	case driverPostgres, driverSQLite:
	default:
		return config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

func (c config) dataSource() (driver, dsn string) {
	if c.DBDSN != "" {
		return c.DBDriver, c.DBDSN
	}
	if c.DBDriver == driverSQLite {
		return driverSQLite, c.SQLitePath
	}

	dsn = fmt.Sprintf("user=%s dbname=%s sslmode=%s", c.DBUser, c.DBName, c.DBSSLMode)
	if c.DBHost != "" {
		dsn += " host=" + c.DBHost
	}
	if c.DBPassword != "" {
		dsn += " password=" + c.DBPassword
	}
	return driverPostgres, dsn
}

func (c config) requireSecret() error {
	if c.SecretKey == "" {
		return errMissingSecret
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
