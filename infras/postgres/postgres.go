package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/JustAdi10/Booking/config"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

// Connection splits reads from writes. Booking mutations and their locks always run on Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	write, err := connect("write", pg.Write, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to postgres")
	}

	read, err := connect("read", pg.Read, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to postgres")
	}

	return &Connection{Read: read, Write: write}
}

// Close releases both pools.
func (c *Connection) Close() error {
	var errs []error

	for _, db := range []*sqlx.DB{c.Read, c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close postgres connections: %w", errors.Join(errs...))
	}

	return nil
}

func connect(role string, node config.PostgresNode, cfg *config.Config) (*sqlx.DB, error) {
	pg := cfg.DB.Postgres
	attempts := max(pg.MaxRetry, 1)
	logger := log.With().Str("role", role).Str("host", node.Host).Str("database", pg.Prefix+node.Name).Logger()

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect(driverName, node.DSN(pg.Prefix, nil))
		if err == nil {
			db.SetMaxOpenConns(pg.MaxOpenConns)
			db.SetMaxIdleConns(pg.MaxIdleConns)

			logger.Info().Msg("Connected to database")

			return db, nil
		}

		lastErr = err
		logger.Error().Err(err).Int("attempt", attempt).Int("of", attempts).Msg("Failed connecting to database")

		if attempt < attempts {
			time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
		}
	}

	return nil, fmt.Errorf("connect %s database after %d attempts: %w", role, attempts, lastErr)
}

// IsErrorCode reports whether err carries the given postgres SQLSTATE.
func IsErrorCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}

	return false
}
