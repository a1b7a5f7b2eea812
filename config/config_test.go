package config_test

import (
	"net/url"
	"testing"

	"github.com/JustAdi10/Booking/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresNode_DSN(t *testing.T) {
	node := config.PostgresNode{
		Host:     "db.internal",
		Port:     "5432",
		Username: "booking",
		Password: "p@ss/word",
		Name:     "booking",
		Timezone: "UTC",
		SSLMode:  "require",
	}

	dsn, err := url.Parse(node.DSN("test_", url.Values{"x-migrations-table": {"schema_migrations"}}))
	require.NoError(t, err)

	password, _ := dsn.User.Password()

	assert.Equal(t, "postgres", dsn.Scheme)
	assert.Equal(t, "booking", dsn.User.Username())
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "db.internal:5432", dsn.Host)
	assert.Equal(t, "/test_booking", dsn.Path)
	assert.Equal(t, "require", dsn.Query().Get("sslmode"))
	assert.Equal(t, "UTC", dsn.Query().Get("timezone"))
	assert.Equal(t, "schema_migrations", dsn.Query().Get("x-migrations-table"))
}

func TestRedisNode_Addr(t *testing.T) {
	assert.Equal(t, "cache:6379", config.RedisNode{Host: "cache", Port: "6379"}.Addr())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr []error
	}{
		{
			name:   "development without secrets",
			mutate: func(c *config.Config) { c.Server.Env = config.EnvDevelopment },
		},
		{
			name: "production with secrets",
			mutate: func(c *config.Config) {
				c.Server.Env = "production"
				c.JWT.AccessSecret = "a"
				c.JWT.RefreshSecret = "r"
			},
		},
		{
			name:    "production without secrets",
			mutate:  func(c *config.Config) { c.Server.Env = "production" },
			wantErr: []error{config.ErrMissingJWTSecret},
		},
		{
			name: "kafka enabled without brokers",
			mutate: func(c *config.Config) {
				c.Server.Env = "staging"
				c.Kafka.Enable = true
			},
			wantErr: []error{config.ErrMissingJWTSecret, config.ErrMissingBrokers},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)

				return
			}

			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}
