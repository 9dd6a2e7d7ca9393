package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_DSN", "DB_SSLMODE", "SESSION_TTL", "DB_TIMEOUT", "LOG_LEVEL", "SECRET_KEY", "DB_HOST", "DB_PASSWORD"} {
		t.Setenv(k, "")
	}
	t.Setenv("DB_USER", "portal")
	t.Setenv("DB_NAME", "school")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, driverPostgres, cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.ErrorIs(t, cfg.requireSecret(), errMissingSecret)

	driver, dsn := cfg.dataSource()
	assert.Equal(t, driverPostgres, driver)
	assert.Equal(t, "user=portal dbname=school sslmode=disable", dsn)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "")
	t.Setenv("SQLITE_PATH", "/tmp/portal.db")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SECRET_KEY", "s3cret")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.NoError(t, cfg.requireSecret())

	driver, dsn := cfg.dataSource()
	assert.Equal(t, driverSQLite, driver)
	assert.Equal(t, "/tmp/portal.db", dsn)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "DB_DRIVER", "mysql"},
		{"bad session ttl", "SESSION_TTL", "forever"},
		{"bad db timeout", "DB_TIMEOUT", "soon"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(test.key, test.val)
			_, err := loadConfig()
			assert.Error(t, err)
		})
	}
}

func TestDataSource_PostgresWithHost(t *testing.T) {
	cfg := config{DBDriver: driverPostgres, DBUser: "u", DBName: "n", DBSSLMode: "require", DBHost: "db", DBPassword: "p"}
	_, dsn := cfg.dataSource()
	assert.Equal(t, "user=u dbname=n sslmode=require host=db password=p", dsn)

	cfg.DBDSN = "postgres://u:p@db/n"
	_, dsn = cfg.dataSource()
	assert.Equal(t, "postgres://u:p@db/n", dsn)
}
