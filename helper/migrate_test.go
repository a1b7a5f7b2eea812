package helper_test

import (
	"net/url"
	"testing"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/helper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionString(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.MigrationTable = "schema_migrations"
	cfg.DB.Postgres.Write.Username = "booking"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Host = "localhost"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "booking"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	dsn, err := url.Parse(helper.ConnectionString(cfg))
	require.NoError(t, err)

	password, _ := dsn.User.Password()

	assert.Equal(t, "postgres", dsn.Scheme)
	assert.Equal(t, "booking", dsn.User.Username())
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "localhost:5432", dsn.Host)
	assert.Equal(t, "/test_booking", dsn.Path)
	assert.Equal(t, "disable", dsn.Query().Get("sslmode"))
	assert.Equal(t, "schema_migrations", dsn.Query().Get("x-migrations-table"))
}

func TestRunner_MissingSource(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.MigrationPath = "file://does-not-exist"

	err := helper.Runner(cfg, "sideways", 1)
	assert.Error(t, err)
}
